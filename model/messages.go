package model

import (
	"sevi/chat"
	"sevi/quiz"
)

type ChatReplyMsg struct {
	Request chat.Request
	Reply   string
	Err     error
}

type HelpDoneMsg struct {
	ID string
}

type QuizLoadedMsg struct {
	Source string
	Doc    *quiz.Document
	Err    error
}

type QuizSubmittedMsg struct {
	Result quiz.Result
	Err    error
}

type BackendStatusMsg struct {
	Name string
	Err  error
}

type FlashTickMsg struct{}
