package status

// Overlay maps task names to their reported status.
// A nil or empty Overlay means status annotation is disabled.
type Overlay map[string]Status

// Lookup returns the status of a task, or Unknown if it was not reported.
func (o Overlay) Lookup(name string) Status {
	if s, ok := o[name]; ok {
		return s
	}
	return Unknown
}

// Empty reports whether the overlay carries no statuses at all.
func (o Overlay) Empty() bool {
	return len(o) == 0
}

// Counts tallies statuses for the given task names, resolving absent ones to Unknown.
func (o Overlay) Counts(names []string) map[Status]int {
	counts := make(map[Status]int)
	for _, name := range names {
		counts[o.Lookup(name)]++
	}
	return counts
}

// Restrict returns a copy of the overlay holding only the given task names.
func (o Overlay) Restrict(names []string) Overlay {
	out := make(Overlay, len(names))
	for _, name := range names {
		if s, ok := o[name]; ok {
			out[name] = s
		}
	}
	return out
}
