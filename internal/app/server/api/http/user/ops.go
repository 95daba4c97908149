package user

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Вход по email и паролю",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) profileOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-profile",
		Method:      http.MethodGet,
		Path:        "/user/profile",
		Summary:     "Профиль пользователя",
		Tags:        []string{"users"},
		Security:    bearer,
		Middlewares: h.authMiddleware,
	}
}

func (h *Handler) updateProfileOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-profile-update",
		Method:      http.MethodPut,
		Path:        "/user/profile",
		Summary:     "Обновление профиля",
		Tags:        []string{"users"},
		Security:    bearer,
		Middlewares: h.authMiddleware,
	}
}

func (h *Handler) changeEmailOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-email",
		Method:      http.MethodPut,
		Path:        "/user/email",
		Summary:     "Смена email",
		Tags:        []string{"users"},
		Security:    bearer,
		Middlewares: h.authMiddleware,
	}
}

func (h *Handler) changePasswordOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-password",
		Method:      http.MethodPut,
		Path:        "/user/password",
		Summary:     "Смена пароля",
		Tags:        []string{"users"},
		Security:    bearer,
		Middlewares: h.authMiddleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-delete",
		Method:      http.MethodDelete,
		Path:        "/user/delete",
		Summary:     "Удаление аккаунта",
		Tags:        []string{"users"},
		Security:    bearer,
		Middlewares: h.authMiddleware,
	}
}
