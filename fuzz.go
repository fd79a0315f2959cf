package flavour

func Fuzz(data []byte) int {
	var _, err = NewBundle().
		AddTemplateString("", string(data)).
		Compile()

	if err != nil {
		return 0
	}
	return 1
}
