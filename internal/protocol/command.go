package protocol

// Command identifies the operation requested by a client.
type Command byte

const (
	List Command = iota
	Create
	Upload
	Delete
	Invalid
)

// String returns the lowercase command name used on the CLI and in logs.
func (c Command) String() string {
	switch c {
	case List:
		return "list"
	case Create:
		return "create"
	case Upload:
		return "upload"
	case Delete:
		return "delete"
	default:
		return "(INVALID)"
	}
}

// Valid reports whether c is one of the four wire commands.
func (c Command) Valid() bool {
	return c < Invalid
}

// ParseCommand maps a CLI word to its command. Unknown words yield Invalid.
func ParseCommand(s string) Command {
	switch s {
	case "list":
		return List
	case "create":
		return Create
	case "upload":
		return Upload
	case "delete":
		return Delete
	}
	return Invalid
}

// Status is the first byte of every response.
type Status byte

const (
	Success Status = 0
	Failure Status = 1
)

func (s Status) String() string {
	if s == Success {
		return "success"
	}
	return "failure"
}
