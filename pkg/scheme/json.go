package scheme

import (
	"encoding/json"

	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

// jsonScheme is the JSON representation of a Scheme.
type jsonScheme struct {
	Name     string        `json:"name,omitempty"`
	Channels []jsonChannel `json:"channels"`
}

type jsonChannel struct {
	Name   string      `json:"name"`
	Class  string      `json:"class,omitempty"`
	Points []jsonPoint `json:"points"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ParseJSON parses a scheme from JSON. The result is not validated.
func ParseJSON(data []byte) (*Scheme, error) {
	var j jsonScheme
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	s := &Scheme{Name: j.Name}
	for _, jc := range j.Channels {
		c := Channel{Name: jc.Name, Class: jc.Class}
		for _, jp := range jc.Points {
			c.Points = append(c.Points, spline.Point{X: jp.X, Y: jp.Y})
		}
		s.Channels = append(s.Channels, c)
	}
	return s, nil
}

// ToJSON converts a scheme to JSON.
func ToJSON(s *Scheme, pretty bool) ([]byte, error) {
	j := jsonScheme{
		Name:     s.Name,
		Channels: make([]jsonChannel, 0, len(s.Channels)),
	}
	for _, c := range s.Channels {
		jc := jsonChannel{
			Name:   c.Name,
			Class:  c.Class,
			Points: make([]jsonPoint, 0, len(c.Points)),
		}
		for _, p := range c.Points {
			jc.Points = append(jc.Points, jsonPoint{X: p.X, Y: p.Y})
		}
		j.Channels = append(j.Channels, jc)
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}
