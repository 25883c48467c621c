package scheme

import "testing"

// FuzzParseJSON tests the scheme parser with arbitrary input.
// Run with: go test -fuzz=FuzzParseJSON ./pkg/scheme/
func FuzzParseJSON(f *testing.F) {
	f.Add([]byte(`{"name":"default","channels":[{"name":"Red","class":"red","points":[{"x":1,"y":10}]}]}`))
	f.Add([]byte(`{"channels":[{"name":"A","points":[{"x":1,"y":1},{"x":2,"y":2}]},{"name":"B","points":[]}]}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`[]`))
	f.Add([]byte(`null`))
	f.Add([]byte(``))
	f.Add([]byte(`{"channels":[{"points":[{"x":"1"}]}]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		s, err := ParseJSON(data)
		if err != nil || s == nil {
			return
		}
		// Parsed schemes must survive validation, cloning and serialization
		_ = s.Validate()
		c := s.Clone()
		if _, err := ToJSON(c, false); err != nil {
			t.Fatalf("ToJSON after successful parse: %v", err)
		}
		if _, err := ToJSON(c, true); err != nil {
			t.Fatalf("pretty ToJSON after successful parse: %v", err)
		}
	})
}
