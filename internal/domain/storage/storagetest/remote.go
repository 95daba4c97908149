// Package storagetest содержит хранилище в памяти для тестов адаптеров
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"vera/internal/domain/storage"
)

// Remote реализует storage.Remote в памяти и записывает порядок вызовов
type Remote struct {
	mu sync.Mutex

	files []storage.File
	data  map[string][]byte
	docs  map[string][]byte
	seq   int

	// Errors подменяет результат метода: ключ "Files", "Download", "UploadData",
	// "UploadImage", "DeleteFile", "GET <endpoint>" или "POST <endpoint>"
	Errors map[string]error
	// Responses задает ответ POST вместо эха тела запроса
	Responses map[string]any
	Calls     []string
	Images    []storage.ImageUpload
}

func NewRemote() *Remote {
	return &Remote{
		data:      make(map[string][]byte),
		docs:      make(map[string][]byte),
		Errors:    make(map[string]error),
		Responses: make(map[string]any),
	}
}

// PutFile кладет файл в хранилище, как будто его загрузил другой клиент
func (r *Remote) PutFile(name string, content []byte) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.putFile(name, content)
}

// PutDoc задает документ, который вернет GET endpoint
func (r *Remote) PutDoc(endpoint string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	r.docs[endpoint] = b
}

// Doc возвращает последнее тело POST на endpoint
func (r *Remote) Doc(endpoint string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[endpoint]
}

// Content возвращает содержимое файла по имени
func (r *Remote) Content(name string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := storage.FindByName(r.files, name)
	if !ok {
		return nil, false
	}
	return r.data[f.ID], true
}

func (r *Remote) HasFile(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.data[id]
	return ok
}

func (r *Remote) Files(_ context.Context) ([]storage.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, "Files")
	if err := r.Errors["Files"]; err != nil {
		return nil, err
	}
	return append([]storage.File(nil), r.files...), nil
}

func (r *Remote) Download(_ context.Context, fileID string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, "Download "+fileID)
	if err := r.Errors["Download"]; err != nil {
		return nil, err
	}
	b, ok := r.data[fileID]
	if !ok {
		return nil, &storage.ServerError{Status: 404, Message: "File not found"}
	}
	return b, nil
}

func (r *Remote) UploadData(_ context.Context, filename string, content []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, "UploadData "+filename)
	if err := r.Errors["UploadData"]; err != nil {
		return "", err
	}
	id := r.putFile(filename, content)
	return "https://storage.local/" + id, nil
}

func (r *Remote) UploadImage(_ context.Context, endpoint string, img storage.ImageUpload) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, "UploadImage "+endpoint)
	if err := r.Errors["UploadImage"]; err != nil {
		return "", err
	}
	r.Images = append(r.Images, img)
	return r.putFile(img.Filename, []byte(img.ImageData)), nil
}

func (r *Remote) DeleteFile(_ context.Context, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, "DeleteFile "+fileID)
	if err := r.Errors["DeleteFile"]; err != nil {
		return err
	}
	delete(r.data, fileID)
	for i, f := range r.files {
		if f.ID == fileID {
			r.files = append(r.files[:i], r.files[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Remote) GetJSON(_ context.Context, endpoint string, out any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, "GET "+endpoint)
	if err := r.Errors["GET "+endpoint]; err != nil {
		return err
	}
	b, ok := r.docs[endpoint]
	if !ok {
		b = []byte("{}")
	}
	return json.Unmarshal(b, out)
}

func (r *Remote) PostJSON(_ context.Context, endpoint string, in, out any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, "POST "+endpoint)
	if err := r.Errors["POST "+endpoint]; err != nil {
		return err
	}

	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	r.docs[endpoint] = body

	if out == nil {
		return nil
	}
	if resp, ok := r.Responses[endpoint]; ok {
		if body, err = json.Marshal(resp); err != nil {
			return err
		}
	}
	return json.Unmarshal(body, out)
}

func (r *Remote) putFile(name string, content []byte) string {
	if f, ok := storage.FindByName(r.files, name); ok {
		r.data[f.ID] = content
		return f.ID
	}
	r.seq++
	id := fmt.Sprintf("file-%d", r.seq)
	r.files = append(r.files, storage.File{ID: id, Name: name})
	r.data[id] = content
	return id
}
