package response

import "github.com/KirthanNB/Zchedule.ai/internal"

// ErrorBody is the flat error payload returned by every handled failure.
type ErrorBody struct {
	Error string `json:"error"`
}

// DetailBody carries diagnostic information for unhandled failures.
type DetailBody struct {
	Detail string `json:"detail"`
}

type MessageBody struct {
	Message string `json:"message"`
}

func Error(msg string) ErrorBody {
	return ErrorBody{Error: msg}
}

func FromAppError(err *internal.AppError) ErrorBody {
	return ErrorBody{Error: err.Message}
}

func Detail(msg string) DetailBody {
	return DetailBody{Detail: msg}
}

func Message(msg string) MessageBody {
	return MessageBody{Message: msg}
}
