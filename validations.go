package foval

func builtinValidations() map[string]Validation {
	out := make(map[string]Validation)
	for _, group := range [][]Validation{
		coreValidations(),
		formatValidations(),
		passwordValidations(),
	} {
		for _, v := range group {
			out[v.Name] = v
		}
	}
	return out
}
