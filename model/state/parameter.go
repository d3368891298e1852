package state

import "sort"

// Parameter is one entry of the list form of a parameter overlay.
type Parameter struct {
	Name  string      `json:"name" yaml:"name"`
	Value interface{} `json:"value" yaml:"value"`
}

// Parameters is the list form of a Context, as written in tree documents.
type Parameters []*Parameter

// Add appends name=value; a later entry with the same name overrides an earlier one.
func (p *Parameters) Add(name string, value interface{}) {
	*p = append(*p, &Parameter{Name: name, Value: value})
}

// Lookup returns the effective value of name.
func (p Parameters) Lookup(name string) (interface{}, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Name == name {
			return p[i].Value, true
		}
	}
	return nil, false
}

// ToContext folds the list into an overlay; an empty list yields a nil overlay.
func (p Parameters) ToContext() Context {
	if len(p) == 0 {
		return nil
	}
	ret := make(Context, len(p))
	for _, param := range p {
		ret[param.Name] = param.Value
	}
	return ret
}

// FromContext lists c sorted by key.
func FromContext(c Context) Parameters {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ret := make(Parameters, 0, len(keys))
	for _, k := range keys {
		ret = append(ret, &Parameter{Name: k, Value: c[k]})
	}
	return ret
}
