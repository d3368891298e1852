package exec

// Input represents commands executed on the local host
type Input struct {
	Workdir      string            `json:"workdir,omitempty"`   // directory where commands start
	Env          map[string]string `json:"env,omitempty"`       // environment variables set before commands run
	Commands     []string          `json:"commands,omitempty"`  // commands to run
	TimeoutMs    int               `json:"timeoutMs,omitempty"` // max wait time per command
	AbortOnError *bool             `json:"abortOnError,omitempty"`
	// Assign replaces the state with the combined standard output
	Assign bool `json:"assign,omitempty"`
}

func (i *Input) abortOnError() bool {
	if i.AbortOnError == nil {
		return true
	}
	return *i.AbortOnError
}
