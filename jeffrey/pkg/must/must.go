package must

// Must panics on initialization errors that can only be caused by a programming mistake.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

func Get[T any](value T, err error) T {
	Must(err)
	return value
}
