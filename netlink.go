package autoattach

import (
	"net"
)

// nlListener reports addition and removal of interfaces on its Messages
// channel; the Linux build watches rtnetlink, other platforms poll.
type nlListener struct {
	Messages chan *linkMessage
	list     map[string]int32
	log      Logger
}

// NewNLListener returns a listener ready to Start.
func NewNLListener(log Logger) *nlListener {
	if log == nil {
		log = defaultLogger()
	}
	return &nlListener{
		Messages: make(chan *linkMessage, 64),
		list:     make(map[string]int32),
		log:      log,
	}
}

// Start runs the listener in the background.
func (l *nlListener) Start() {
	go func() {
		if err := l.Listen(); err != nil {
			l.log.Errorf("could not listen: %v", err)
		}
	}()
}

type linkMessage struct {
	ifi *net.Interface
	op  linkOp
}

type linkOp uint8

const (
	IF_ADD linkOp = 1
	IF_DEL linkOp = 2
)

func (l linkOp) String() string {
	switch l {
	case IF_ADD:
		return "ADD"
	case IF_DEL:
		return "DEL"
	default:
		return "UNKNOWN"
	}
}
