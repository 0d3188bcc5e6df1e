package controller

// Level classifies a notice.
type Level int

const (
	LevelNone Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return ""
	}
}

// Notice is a message for the user.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

func (n Notice) String() string {
	if n.Level == LevelNone {
		return ""
	}
	return n.Title + ": " + n.Message
}

func info(msg string) Notice {
	return Notice{Level: LevelInfo, Title: "Success", Message: msg}
}

func storageError(err error) Notice {
	return Notice{Level: LevelError, Title: "Storage Error", Message: err.Error()}
}

// reloadFailed reports a completed change whose list refresh failed.
func reloadFailed(done string, n Notice) Notice {
	return Notice{Level: n.Level, Title: n.Title, Message: done + ", but the list could not be reloaded: " + n.Message}
}

var (
	requiredFields = Notice{Level: LevelWarning, Title: "Input Error", Message: "Name and Phone are required fields."}
	noSelection    = Notice{Level: LevelWarning, Title: "Selection Error", Message: "No contact selected."}
	emptySearch    = Notice{Level: LevelWarning, Title: "Input Error", Message: "Please enter a name or phone number to search."}
	duplicatePhone = Notice{Level: LevelError, Title: "Error", Message: "Phone number already exists."}
	notFound       = Notice{Level: LevelWarning, Title: "Not Found", Message: "The selected contact no longer exists."}
)
