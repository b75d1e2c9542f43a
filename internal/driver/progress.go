package driver

// Stage is the position of one file in the load pipeline.
type Stage uint8

const (
	StageQueued Stage = iota
	StageParsing
	StageParsed
	StageCommitted
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageQueued:
		return "queued"
	case StageParsing:
		return "parsing"
	case StageParsed:
		return "parsed"
	case StageCommitted:
		return "committed"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// ProgressEvent describes one file changing stage.
type ProgressEvent struct {
	File      string
	Stage     Stage
	Cached    bool // StageParsed: дерево взято из кеша
	Functions int  // StageCommitted: сколько функций зарегистрировано
	Err       error
}

// ProgressObserver receives events from Load. Parse events arrive from
// several goroutines at once.
type ProgressObserver func(ProgressEvent)

func (o ProgressObserver) emit(ev ProgressEvent) {
	if o != nil {
		o(ev)
	}
}
