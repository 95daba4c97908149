package storage

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) op(id, method, path, summary string) huma.Operation {
	return huma.Operation{
		OperationID: id,
		Method:      method,
		Path:        path,
		Summary:     summary,
		Tags:        []string{"storage"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) uploadDataOp() huma.Operation {
	return h.op("storage-upload-data", http.MethodPost, "/storage/upload-data", "Сохранить текстовый документ")
}

func (h *Handler) uploadImageOp() huma.Operation {
	return h.op("storage-upload-image", http.MethodPost, "/storage/upload-image", "Загрузить изображение")
}

func (h *Handler) filesOp() huma.Operation {
	return h.op("storage-files", http.MethodGet, "/storage/files", "Список файлов")
}

func (h *Handler) downloadOp() huma.Operation {
	return h.op("storage-download", http.MethodGet, "/storage/download/{fileId}", "Скачать файл")
}

func (h *Handler) deleteOp() huma.Operation {
	return h.op("storage-delete", http.MethodDelete, "/storage/delete/{fileId}", "Удалить файл")
}

func (h *Handler) clothesOp() huma.Operation {
	return h.op("storage-clothes", http.MethodGet, "/storage/clothes", "Гардероб")
}

func (h *Handler) saveClothesOp() huma.Operation {
	return h.op("storage-clothes-save", http.MethodPost, "/storage/clothes", "Сохранить гардероб")
}

func (h *Handler) clothesImageOp() huma.Operation {
	return h.op("storage-clothes-image", http.MethodPost, "/storage/clothes/image", "Фото одежды")
}

func (h *Handler) personsOp() huma.Operation {
	return h.op("storage-persons", http.MethodGet, "/storage/person", "Знакомые")
}

func (h *Handler) savePersonsOp() huma.Operation {
	return h.op("storage-persons-save", http.MethodPost, "/storage/person", "Сохранить знакомых")
}

func (h *Handler) personImageOp() huma.Operation {
	return h.op("storage-person-image", http.MethodPost, "/storage/person/image", "Фото знакомого")
}

func (h *Handler) upgradeOp() huma.Operation {
	return h.op("storage-upgrade-folder", http.MethodPost, "/storage/upgrade-folder", "Создать недостающие папки")
}
