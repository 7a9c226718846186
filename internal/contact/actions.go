package contact

// ActionTable maps a field kind to the vCard property name used as the
// preferred-action key for that kind. Tables are immutable once built.
type ActionTable struct {
	names map[Kind]string
}

var defaultActions = newActionTable(map[Kind]string{
	KindAddress:       "ADR",
	KindEmailAddress:  "EMAIL",
	KindNote:          "NOTE",
	KindOnlineAccount: "IMPP",
	KindOrganization:  "ORG",
	KindPhoneNumber:   "TEL",
	KindURL:           "URL",
})

func newActionTable(in map[Kind]string) *ActionTable {
	names := make(map[Kind]string, len(in))
	for k, v := range in {
		names[k] = v
	}
	return &ActionTable{names: names}
}

// DefaultActions returns the shared preferred action table.
func DefaultActions() *ActionTable {
	return defaultActions
}

// Action returns the action name for kind.
func (t *ActionTable) Action(kind Kind) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.names[kind]
	return name, ok
}

// Len returns the number of kinds with a preferred action.
func (t *ActionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}
