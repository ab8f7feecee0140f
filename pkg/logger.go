package output

type Logger interface {
	Info(message string, module string)
	Error(string)
}

var logger Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Info(string, string) {}
func (nopLogger) Error(string)        {}

func SetLogger(l Logger) {
	logger = l
}
