package authsdk

import "strings"

// ExtractBearer 从 Authorization 头的值中取出令牌
// 支持 "Bearer <token>" 与 "Token <token>" 两种写法
func ExtractBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrNoToken
	}

	for _, scheme := range []string{"Bearer ", "Token "} {
		if len(header) >= len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			token := strings.TrimSpace(header[len(scheme):])
			if token == "" {
				return "", ErrNoToken
			}
			return token, nil
		}
	}

	return "", ErrInvalidToken
}
