package storage

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"vera/internal/app/server/api/http/middleware/auth"
	"vera/internal/app/server/api/http/response"
	"vera/internal/domain/drive"
)

type Handler struct {
	service    drive.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service drive.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With(slog.String("component", "storage_handler")),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.uploadDataOp(), h.uploadData)
	huma.Register(api, h.uploadImageOp(), h.uploadImage)
	huma.Register(api, h.filesOp(), h.files)
	huma.Register(api, h.downloadOp(), h.download)
	huma.Register(api, h.deleteOp(), h.delete)

	huma.Register(api, h.clothesOp(), h.clothes)
	huma.Register(api, h.saveClothesOp(), h.saveClothes)
	huma.Register(api, h.clothesImageOp(), h.imageTo(drive.ClothesFolder))
	huma.Register(api, h.personsOp(), h.persons)
	huma.Register(api, h.savePersonsOp(), h.savePersons)
	huma.Register(api, h.personImageOp(), h.imageTo(drive.PersonsFolder))
	huma.Register(api, h.upgradeOp(), h.upgrade)
}

func userID(ctx context.Context) (int64, error) {
	id, ok := auth.GetUserID(ctx)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized")
	}
	return id, nil
}

func (h *Handler) uploadData(ctx context.Context, input *uploadDataInput) (*uploadDataOutput, error) {
	owner, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	link, err := h.service.UploadData(ctx, owner, input.Body.Filename, input.Body.Content)
	if err != nil {
		return nil, response.Fail(err)
	}

	out := &uploadDataOutput{}
	out.Body.FileLink = link
	return out, nil
}

func (h *Handler) uploadImage(ctx context.Context, input *uploadImageInput) (*uploadImageOutput, error) {
	return h.storeImage(ctx, input.Body.Subfolder, input)
}

// imageTo загружает изображение в фиксированную папку, поле subfolder игнорируется
func (h *Handler) imageTo(folder string) func(context.Context, *uploadImageInput) (*uploadImageOutput, error) {
	return func(ctx context.Context, input *uploadImageInput) (*uploadImageOutput, error) {
		return h.storeImage(ctx, folder, input)
	}
}

func (h *Handler) storeImage(ctx context.Context, folder string, input *uploadImageInput) (*uploadImageOutput, error) {
	owner, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	if folder == "" {
		folder = drive.ImagesFolder
	}

	id, err := h.service.UploadImage(ctx, owner, folder, input.Body.Filename, input.Body.ImageData)
	if err != nil {
		return nil, response.Fail(err)
	}

	out := &uploadImageOutput{}
	out.Body.FileID = id
	out.Body.Message = "Image uploaded"
	return out, nil
}

func (h *Handler) files(ctx context.Context, _ *struct{}) (*filesOutput, error) {
	owner, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	files, err := h.service.Files(ctx, owner)
	if err != nil {
		return nil, response.Fail(err)
	}

	out := &filesOutput{}
	out.Body.Files = make([]FileEntry, 0, len(files))
	for _, f := range files {
		out.Body.Files = append(out.Body.Files, FileEntry{ID: f.ID, Name: f.Name, MimeType: f.MimeType})
	}
	return out, nil
}

func (h *Handler) download(ctx context.Context, input *fileIDInput) (*downloadOutput, error) {
	owner, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	f, err := h.service.Download(ctx, owner, input.FileID)
	if err != nil {
		return nil, response.Fail(err)
	}
	return &downloadOutput{ContentType: f.MimeType, Body: f.Data}, nil
}

func (h *Handler) delete(ctx context.Context, input *fileIDInput) (*messageOutput, error) {
	owner, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.service.Delete(ctx, owner, input.FileID); err != nil {
		return nil, response.Fail(err)
	}

	out := &messageOutput{}
	out.Body.Message = "File deleted"
	return out, nil
}

func (h *Handler) clothes(ctx context.Context, _ *struct{}) (*clothesOutput, error) {
	owner, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := h.service.Clothes(ctx, owner)
	if err != nil {
		return nil, response.Fail(err)
	}
	return &clothesOutput{Body: clothesBody{Clothes: items}}, nil
}

func (h *Handler) saveClothes(ctx context.Context, input *clothesInput) (*clothesOutput, error) {
	owner, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := h.service.SaveClothes(ctx, owner, input.Body.Clothes)
	if err != nil {
		return nil, response.Fail(err)
	}
	return &clothesOutput{Body: clothesBody{Clothes: items}}, nil
}

func (h *Handler) persons(ctx context.Context, _ *struct{}) (*personsOutput, error) {
	owner, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := h.service.Persons(ctx, owner)
	if err != nil {
		return nil, response.Fail(err)
	}
	return &personsOutput{Body: personsBody{Persons: items}}, nil
}

func (h *Handler) savePersons(ctx context.Context, input *personsInput) (*personsOutput, error) {
	owner, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := h.service.SavePersons(ctx, owner, input.Body.Persons)
	if err != nil {
		return nil, response.Fail(err)
	}
	return &personsOutput{Body: personsBody{Persons: items}}, nil
}

func (h *Handler) upgrade(ctx context.Context, _ *struct{}) (*upgradeOutput, error) {
	owner, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	upgraded, err := h.service.UpgradeFolders(ctx, owner)
	if err != nil {
		return nil, response.Fail(err)
	}

	out := &upgradeOutput{}
	out.Body.Upgraded = upgraded
	out.Body.Message = "Folder structure is up to date"
	if upgraded {
		out.Body.Message = "Folder structure upgraded"
	}
	return out, nil
}
