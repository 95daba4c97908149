package user

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/goccy/go-json"

	"vera/internal/app/server/api/http/middleware/auth"
	"vera/internal/app/server/api/http/response"
	"vera/internal/domain/account"
)

var (
	errNoFile    = errors.New("File is required")
	errMalformed = errors.New("Malformed request body")
)

// register принимает JSON или multipart с голосовым образцом в части voice
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	var in account.RegisterInput
	if isMultipart(r) {
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			response.Write(w, badRequest(errMalformed))
			return
		}
		in.Email = r.FormValue("email")
		in.Username = r.FormValue("username")
		in.CIN = r.FormValue("cin")

		voice, err := formFile(r, "voice")
		if err != nil && !errors.Is(err, errNoFile) {
			response.Write(w, badRequest(err))
			return
		}
		in.Voice = voice
	} else {
		var body registerRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Write(w, badRequest(errMalformed))
			return
		}
		in.Email, in.Username, in.CIN = body.Email, body.Username, body.CIN
	}

	u, token, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.log.Debug("registration failed", "email", in.Email, "error", err)
		response.Write(w, err)
		return
	}

	h.log.Info("user registered", "user_id", u.ID, "voice", len(in.Voice) > 0)
	response.JSON(w, http.StatusCreated, AuthResponse{
		User:    profileOf(u),
		Token:   token,
		Message: "User registered successfully",
	})
}

func (h *Handler) verifyVoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		response.Write(w, badRequest(errMalformed))
		return
	}

	sample, err := formFile(r, "voice")
	if err != nil {
		response.Write(w, badRequest(err))
		return
	}

	res, err := h.service.VerifyVoice(r.Context(), r.FormValue("email"), sample)
	if err != nil {
		response.Write(w, err)
		return
	}

	out := VoiceResponse{
		Verified:   res.Verified,
		VoiceMatch: &VoiceMatch{Similarity: res.Similarity},
		User:       profileOf(res.User),
		Token:      res.Token,
		Message:    "Voice verified",
	}
	if !res.Verified {
		out.Message = "Voice does not match"
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *Handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "photo", "Photo updated", func(userID int64, data []byte) error {
		return h.service.SetPhoto(r.Context(), userID, data)
	})
}

func (h *Handler) uploadVoice(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "voice", "Voice updated", func(userID int64, data []byte) error {
		return h.service.SetVoice(r.Context(), userID, data)
	})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, field, done string, store func(int64, []byte) error) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		response.Write(w, response.NewError(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		response.Write(w, badRequest(errMalformed))
		return
	}

	data, err := formFile(r, field)
	if err != nil {
		response.Write(w, badRequest(err))
		return
	}
	if err := store(userID, data); err != nil {
		response.Write(w, err)
		return
	}
	response.JSON(w, http.StatusOK, MessageResponse{Message: done})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// formFile читает часть multipart-формы целиком. Отсутствующий или пустой файл дает errNoFile.
func formFile(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, errNoFile
	}
	if err != nil {
		return nil, errMalformed
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errMalformed
	}
	if len(data) == 0 {
		return nil, errNoFile
	}
	return data, nil
}

func badRequest(err error) error {
	return response.NewError(http.StatusBadRequest, err.Error())
}
