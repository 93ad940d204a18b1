package encoding

// builtins lists the shipped encodings with their accepted aliases.
var builtins = []struct {
	enc     Encoding
	aliases []string
}{
	{UTF8, []string{"UTF-8", "UTF8"}},
	{ASCII, []string{"US-ASCII", "ASCII"}},
	{ISO8859_1, []string{"ISO-8859-1", "ISO8859-1", "LATIN1"}},
	{EUCJP, []string{"EUC-JP", "EUCJP"}},
	{ShiftJIS, []string{"Shift_JIS", "SJIS", "SHIFT-JIS"}},
}

// ByName looks up a built-in encoding by name or alias, ignoring ASCII case.
func ByName(name string) (Encoding, bool) {
	for _, b := range builtins {
		for _, a := range b.aliases {
			if asciiEqualFold(a, name) {
				return b.enc, true
			}
		}
	}
	return nil, false
}

// Names returns the canonical names of the built-in encodings.
func Names() []string {
	out := make([]string, len(builtins))
	for i, b := range builtins {
		out[i] = b.enc.Name()
	}
	return out
}
