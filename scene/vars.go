package scene

import "sort"

// Vars is the session variable store: every two-letter lowercase
// identifier from $aa to $zz exists from session start with value 0.
// Only these 676 names are ever valid; referencing anything else is a
// script authoring bug.
type Vars struct {
	m map[string]int
}

func NewVars() *Vars {
	m := make(map[string]int, 26*26)
	for a := 'a'; a <= 'z'; a++ {
		for b := 'a'; b <= 'z'; b++ {
			m["$"+string(a)+string(b)] = 0
		}
	}
	return &Vars{m: m}
}

// Get returns the value of name and whether name is a known variable.
func (v *Vars) Get(name string) (int, bool) {
	val, ok := v.m[name]
	return val, ok
}

// Set assigns val to name, reporting whether name is a known variable.
func (v *Vars) Set(name string, val int) bool {
	if _, ok := v.m[name]; !ok {
		return false
	}
	v.m[name] = val
	return true
}

// VarValue is one nonzero variable for save serialization.
type VarValue struct {
	Name  string
	Value int
}

// Nonzero returns all variables with nonzero values in name order, the
// only variables worth persisting.
func (v *Vars) Nonzero() []VarValue {
	var out []VarValue
	for name, val := range v.m {
		if val != 0 {
			out = append(out, VarValue{Name: name, Value: val})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
