package sidra

// Payload is a decoded SIDRA values response: a JSON array of string
// maps where the first element describes the columns and the rest are
// data rows keyed by column code (D1C, D1N, V, ...).
type Payload []map[string]string

// Header returns the column descriptor row, or nil for an empty payload.
func (p Payload) Header() map[string]string {
	if len(p) == 0 {
		return nil
	}
	return p[0]
}

// DataRows returns the data rows, excluding the header descriptor.
func (p Payload) DataRows() []map[string]string {
	if len(p) < 2 {
		return nil
	}
	return p[1:]
}
