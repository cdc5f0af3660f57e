package canon

// Canon is the authoritative attribute mapping for a character.
// Keys are free-form attribute names chosen by the model or the user;
// values are atomic strings. There is no fixed schema.
type Canon map[string]string

// Diff is a proposed change against a canon mapping: upserts in Set,
// removals in Unset.
type Diff struct {
	Set   map[string]string `json:"set"`
	Unset []string          `json:"unset"`
}

// IsEmpty reports whether the diff would change nothing.
func (d *Diff) IsEmpty() bool {
	return d == nil || (len(d.Set) == 0 && len(d.Unset) == 0)
}

// Apply produces the canon mapping that results from applying d to c.
// The input is never mutated. Unset keys are removed first (absent keys
// are no-ops), then Set entries are upserted, so a key named in both
// ends up with its Set value.
func Apply(c Canon, d Diff) Canon {
	result := make(Canon, len(c)+len(d.Set))
	for k, v := range c {
		result[k] = v
	}

	for _, k := range d.Unset {
		delete(result, k)
	}

	for k, v := range d.Set {
		result[k] = v
	}

	return result
}

// Clone returns an independent copy of c. A nil canon clones to an
// empty, non-nil mapping so callers can write to it safely.
func (c Canon) Clone() Canon {
	result := make(Canon, len(c))
	for k, v := range c {
		result[k] = v
	}
	return result
}
