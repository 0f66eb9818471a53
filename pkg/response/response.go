package response

type ResponseCode int

// Response 错误响应体
type Response struct {
	Message string       `json:"message"`
	Code    ResponseCode `json:"code"`
	Data    any          `json:"data"`
}

// FromBusinessError 把业务错误转换为响应体，Data 携带字段级错误
func FromBusinessError(err *BusinessError) Response {
	return Response{
		Message: err.Msg,
		Code:    err.Code,
		Data:    err.Data,
	}
}
