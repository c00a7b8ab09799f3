package common

// ApplyOption runs functional options against an instance,
// stopping at the first failing option.
func ApplyOption[T any](instance *T, options []func(*T) error) (*T, error) {
	for _, opt := range options {
		if err := opt(instance); err != nil {
			return nil, err
		}
	}
	return instance, nil
}
