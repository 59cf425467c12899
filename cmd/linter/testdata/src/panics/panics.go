package panics

func Verify(blob []byte) bool {
	if len(blob) < 4 {
		panic("short blob") // want `panic\(\) should not be used in production code`
	}
	return true
}

func shadowed() {
	panic := func(string) {}
	panic("not the builtin")
}
