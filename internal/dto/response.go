package dto

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"terminal-terrace/conduit/internal/errs"
	"terminal-terrace/conduit/internal/logger"
	res "terminal-terrace/conduit/pkg/response"
)

func init() {
	// 校验错误使用 JSON 字段名
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

// ErrorResponse 以给定状态码输出业务错误并终止后续处理
func ErrorResponse(c *gin.Context, status int, err *res.BusinessError) {
	c.AbortWithStatusJSON(status, res.FromBusinessError(err))
}

// HandleError 根据错误类别映射状态码，未知错误记录日志并返回 500
func HandleError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ValidationErrorResponse(c, err)
		return
	}

	kind := errs.Classify(err)
	msg := err.Error()
	if kind.Status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		if kind.Code == res.Fail {
			msg = "服务器内部错误"
		}
	}

	ErrorResponse(c, kind.Status, res.NewBusinessError(
		res.WithErrorCode(kind.Code),
		res.WithErrorMessage(msg),
		res.WithError(err),
	))
}

// ValidationErrorResponse 处理验证错误，返回友好的JSON字段名
// 所有字段错误放在 data 中，message 取第一个
func ValidationErrorResponse(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fields := make(map[string][]string, len(validationErrs))
		for _, fe := range validationErrs {
			field := fe.Field()
			fields[field] = append(fields[field], fieldMessage(fe))
		}

		ErrorResponse(c, http.StatusUnprocessableEntity, res.NewBusinessError(
			res.WithErrorCode(res.InvalidParameter),
			res.WithErrorMessage(fieldMessage(validationErrs[0])),
			res.WithErrorData(fields),
		))
		return
	}

	// JSON 语法错误、类型不匹配、未知字段等
	ErrorResponse(c, http.StatusUnprocessableEntity, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("参数错误: "+err.Error()),
		res.WithError(fmt.Errorf("%w: %w", errs.ErrValidationFailed, err)),
	))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("字段 '%s' 是必填项", field)
	case "max":
		return fmt.Sprintf("字段 '%s' 长度不能超过 %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("字段 '%s' 长度不能少于 %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("字段 '%s' 不是有效的邮箱", field)
	case "oneof":
		return fmt.Sprintf("字段 '%s' 必须是以下值之一: %s", field, fe.Param())
	default:
		return fmt.Sprintf("字段 '%s' 验证失败: %s", field, fe.Tag())
	}
}

// jsonTagName 取 json 或 form 标签作为字段名
func jsonTagName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
