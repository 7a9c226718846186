package parser

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/danmuck/vcardcodec/internal/contact"
	"github.com/danmuck/vcardcodec/internal/observability"
	"github.com/danmuck/vcardcodec/internal/versit"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrBusy   = errors.New("parser: operation in progress")
	ErrClosed = errors.New("parser: closed")
)

var (
	_ versit.ExportHandler = (*ExportHandler)(nil)
	_ versit.ImportHandler = (*ImportHandler)(nil)
)

// State is the per-direction lifecycle of a Parser.
type State int

const (
	StateIdle State = iota
	StateInProgress
)

func (s State) String() string {
	if s == StateInProgress {
		return "in_progress"
	}
	return "idle"
}

// Executor runs the asynchronous half of a decode or encode.
type Executor interface {
	Go(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Go(fn func()) { f(fn) }

// GoroutineExecutor runs each operation on its own goroutine.
var GoroutineExecutor Executor = ExecutorFunc(func(fn func()) { go fn() })

// Config defines parser behavior.
type Config struct {
	Version  string
	Actions  *contact.ActionTable
	Executor Executor
	Logger   *zerolog.Logger
}

// DefaultConfig writes vCard 3.0 and runs work on goroutines.
func DefaultConfig() Config {
	return Config{
		Version:  versit.Version30,
		Actions:  contact.DefaultActions(),
		Executor: GoroutineExecutor,
	}
}

type operation struct {
	done     chan struct{}
	started  time.Time
	err      error
	contacts []*contact.Contact
	records  []string
}

func newOperation() *operation {
	return &operation{done: make(chan struct{}), started: time.Now()}
}

func (op *operation) running() bool {
	if op == nil {
		return false
	}
	select {
	case <-op.done:
		return false
	default:
		return true
	}
}

// Parser converts between contacts and vCard records. At most one decode and
// one encode run at a time; a second request in the same direction is
// rejected with ErrBusy. Results are cached until the next operation of the
// same direction starts.
type Parser struct {
	version string
	actions *contact.ActionTable
	exec    Executor
	log     zerolog.Logger

	mu               sync.Mutex
	decode           *operation
	encode           *operation
	contacts         []*contact.Contact
	records          []string
	contactListeners []func([]*contact.Contact)
	recordListeners  []func([]string)
	closed           bool
}

// New builds a parser, filling unset Config fields from DefaultConfig.
func New(cfg Config) *Parser {
	def := DefaultConfig()
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.Actions == nil {
		cfg.Actions = def.Actions
	}
	if cfg.Executor == nil {
		cfg.Executor = def.Executor
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Parser{
		version: cfg.Version,
		actions: cfg.Actions,
		exec:    cfg.Executor,
		log:     logger.With().Str("component", "parser").Logger(),
	}
}

// OnContacts registers fn to receive every successful decode result.
func (p *Parser) OnContacts(fn func([]*contact.Contact)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contactListeners = append(p.contactListeners, fn)
}

// OnRecords registers fn to receive every successful encode result.
func (p *Parser) OnRecords(fn func([]string)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recordListeners = append(p.recordListeners, fn)
}

// DecodeState reports whether a decode is in flight.
func (p *Parser) DecodeState() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.decode.running() {
		return StateInProgress
	}
	return StateIdle
}

// EncodeState reports whether an encode is in flight.
func (p *Parser) EncodeState() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.encode.running() {
		return StateInProgress
	}
	return StateIdle
}

// Contacts returns the result of the last successful decode.
func (p *Parser) Contacts() []*contact.Contact {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*contact.Contact(nil), p.contacts...)
}

// Records returns the result of the last successful encode.
func (p *Parser) Records() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.records...)
}

// Decode starts parsing records into contacts. Records may also be a single
// concatenated stream.
func (p *Parser) Decode(records []string) error {
	_, err := p.startDecode(records)
	return err
}

func (p *Parser) startDecode(records []string) (*operation, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	if p.decode.running() {
		p.mu.Unlock()
		p.log.Warn().Int("records", len(records)).Msg("import operation in progress")
		observability.RecordBusy(observability.DirectionDecode)
		return nil, ErrBusy
	}
	p.contacts = nil
	op := newOperation()
	p.decode = op
	p.mu.Unlock()

	data := versit.JoinRecords(splitRecords(records))
	p.log.Debug().Int("records", len(records)).Int("bytes", len(data)).Msg("decode started")
	p.exec.Go(func() { p.runDecode(op, data) })
	return op, nil
}

// splitRecords partitions every input on its begin markers so one entry may
// carry a whole concatenated stream.
func splitRecords(records []string) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, versit.SplitString(rec)...)
	}
	return out
}

// Encode starts writing contacts as vCard records.
func (p *Parser) Encode(contacts []*contact.Contact) error {
	_, err := p.startEncode(contacts)
	return err
}

func (p *Parser) startEncode(contacts []*contact.Contact) (*operation, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	if p.encode.running() {
		p.mu.Unlock()
		p.log.Warn().Int("contacts", len(contacts)).Msg("export operation in progress")
		observability.RecordBusy(observability.DirectionEncode)
		return nil, ErrBusy
	}
	p.records = nil
	op := newOperation()
	p.encode = op
	p.mu.Unlock()

	batch := append([]*contact.Contact(nil), contacts...)
	p.log.Debug().Int("contacts", len(batch)).Msg("encode started")
	p.exec.Go(func() { p.runEncode(op, batch) })
	return op, nil
}

func (p *Parser) runDecode(op *operation, data []byte) {
	contacts, err := p.decodeContacts(data)
	defer op.finish(err)

	p.mu.Lock()
	if err == nil {
		p.contacts = contacts
		op.contacts = contacts
	}
	listeners := slices.Clone(p.contactListeners)
	p.mu.Unlock()

	elapsed := time.Since(op.started)
	if err != nil {
		observability.RecordOperation(observability.DirectionDecode, observability.OutcomeError, 0, elapsed)
		p.log.Warn().Err(err).Msg("fail to import contacts")
		return
	}
	observability.RecordOperation(observability.DirectionDecode, observability.OutcomeOK, len(contacts), elapsed)
	p.log.Debug().Int("contacts", len(contacts)).Dur("elapsed", elapsed).Msg("contacts parsed")
	for _, fn := range listeners {
		fn(contacts)
	}
}

func (p *Parser) runEncode(op *operation, contacts []*contact.Contact) {
	records, err := p.encodeRecords(contacts)
	defer op.finish(err)

	p.mu.Lock()
	if err == nil {
		p.records = records
		op.records = records
	}
	listeners := slices.Clone(p.recordListeners)
	p.mu.Unlock()

	elapsed := time.Since(op.started)
	if err != nil {
		observability.RecordOperation(observability.DirectionEncode, observability.OutcomeError, 0, elapsed)
		p.log.Warn().Err(err).Msg("fail to export contacts")
		return
	}
	observability.RecordOperation(observability.DirectionEncode, observability.OutcomeOK, len(records), elapsed)
	p.log.Debug().Int("records", len(records)).Dur("elapsed", elapsed).Msg("records written")
	for _, fn := range listeners {
		fn(records)
	}
}

// finish moves the direction back to idle. Listeners have already run, so a
// listener starting a new operation in the same direction gets ErrBusy.
func (op *operation) finish(err error) {
	op.err = err
	close(op.done)
}

func (p *Parser) decodeContacts(data []byte) ([]*contact.Contact, error) {
	docs, err := versit.ReadDocuments(data)
	if err != nil {
		return nil, err
	}
	return versit.NewImporter(NewImportHandler(p.actions)).Import(docs)
}

func (p *Parser) encodeRecords(contacts []*contact.Contact) ([]string, error) {
	docs, err := versit.NewExporter(NewExportHandler(p.actions)).Export(contacts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := versit.WriteDocuments(&buf, docs, p.version); err != nil {
		return nil, err
	}
	// the writer concatenates every document into one stream
	return versit.SplitString(buf.String()), nil
}

// Wait blocks until the latest decode and encode have finished and returns
// their errors.
func (p *Parser) Wait() error {
	p.mu.Lock()
	ops := []*operation{p.decode, p.encode}
	p.mu.Unlock()

	var errs []error
	for _, op := range ops {
		if op == nil {
			continue
		}
		<-op.done
		if op.err != nil {
			errs = append(errs, op.err)
		}
	}
	return errors.Join(errs...)
}

// Close rejects new work and drains in-flight operations.
func (p *Parser) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return p.Wait()
}

// DecodeSync decodes records and blocks for the result.
func (p *Parser) DecodeSync(records []string) ([]*contact.Contact, error) {
	op, err := p.startDecode(records)
	if err != nil {
		return nil, err
	}
	<-op.done
	if op.err != nil {
		return nil, fmt.Errorf("decode: %w", op.err)
	}
	return append([]*contact.Contact(nil), op.contacts...), nil
}

// EncodeSync encodes contacts and blocks for the result.
func (p *Parser) EncodeSync(contacts []*contact.Contact) ([]string, error) {
	op, err := p.startEncode(contacts)
	if err != nil {
		return nil, err
	}
	<-op.done
	if op.err != nil {
		return nil, fmt.Errorf("encode: %w", op.err)
	}
	return append([]string(nil), op.records...), nil
}
