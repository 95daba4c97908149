package storage

import "vera/internal/domain/drive"

type FileEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
}

type uploadDataInput struct {
	Body struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
}

type uploadDataOutput struct {
	Body struct {
		FileLink string `json:"file_link"`
	}
}

type uploadImageInput struct {
	Body struct {
		Filename  string `json:"filename"`
		ImageData string `json:"imageData"`
		Subfolder string `json:"subfolder,omitempty"`
	}
}

type uploadImageOutput struct {
	Body struct {
		FileID  string `json:"file_id"`
		Message string `json:"message"`
	}
}

type filesOutput struct {
	Body struct {
		Files []FileEntry `json:"files"`
	}
}

type fileIDInput struct {
	FileID string `path:"fileId"`
}

type downloadOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type messageOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

type clothesBody struct {
	Clothes []drive.Item `json:"clothes"`
}

type clothesInput struct {
	Body clothesBody
}

type clothesOutput struct {
	Body clothesBody
}

type personsBody struct {
	Persons []drive.Item `json:"persons"`
}

type personsInput struct {
	Body personsBody
}

type personsOutput struct {
	Body personsBody
}

type upgradeOutput struct {
	Body struct {
		Message  string `json:"message"`
		Upgraded bool   `json:"upgraded"`
	}
}
