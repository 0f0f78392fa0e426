package models

type Response struct {
	Msg string `json:"msg"`
}

type UploadResponse struct {
	Msg string `json:"msg"`
	ID  string `json:"id,omitempty"`
}

func Message(msg string) Response {
	return Response{Msg: msg}
}
