package scpi

// Query writes command to t and returns the response line. The read is not
// attempted when the write fails. An empty response means the device did not
// answer; see TimedOut.
func Query(t Transport, command string) (string, error) {
	if err := t.Write(command); err != nil {
		return "", err
	}
	return t.Read()
}

// QueryAll issues commands in order on t and stops at the first error. The
// responses gathered before the failure are returned alongside it.
func QueryAll(t Transport, commands ...string) ([]string, error) {
	responses := make([]string, 0, len(commands))
	for _, command := range commands {
		resp, err := Query(t, command)
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
