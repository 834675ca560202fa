package api

import (
	"context"

	"github.com/ruoyi-fastapi/ruoyi-go/internal/transport"
)

// Audio is a text-to-speech generation record.
type Audio struct {
	AudioID        int64   `json:"audioId,omitempty" yaml:"audioId,omitempty"`
	AudioName      string  `json:"audioName,omitempty" yaml:"audioName,omitempty"`
	InputText      string  `json:"inputText,omitempty" yaml:"inputText,omitempty"`
	Voice          string  `json:"voice,omitempty" yaml:"voice,omitempty"`
	Model          string  `json:"model,omitempty" yaml:"model,omitempty"`
	Speed          float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	ResponseFormat string  `json:"responseFormat,omitempty" yaml:"responseFormat,omitempty"`
	FilePath       string  `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	FileSize       int64   `json:"fileSize,omitempty" yaml:"fileSize,omitempty"` // Bytes
	Duration       int64   `json:"duration,omitempty" yaml:"duration,omitempty"` // Seconds
	Status         string  `json:"status,omitempty" yaml:"status,omitempty"`     // "0" generating, "1" done, "2" failed
	ErrorMsg       string  `json:"errorMsg,omitempty" yaml:"errorMsg,omitempty"`

	Audit `yaml:",inline"`
}

// AudioQuery filters audio lists.
type AudioQuery struct {
	PageQuery `yaml:",inline"`

	AudioName string `json:"audioName,omitempty" yaml:"audioName,omitempty"`
	Voice     string `json:"voice,omitempty" yaml:"voice,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
}

// AudioGenerate asks the server to synthesize speech. ConfigID selects a
// stored TTS configuration; zero uses the caller's default.
type AudioGenerate struct {
	ConfigID       int64   `json:"configId,omitempty" yaml:"configId,omitempty"`
	InputText      string  `json:"inputText" yaml:"inputText"`
	AudioName      string  `json:"audioName,omitempty" yaml:"audioName,omitempty"`
	Voice          string  `json:"voice,omitempty" yaml:"voice,omitempty"`
	Model          string  `json:"model,omitempty" yaml:"model,omitempty"`
	Speed          float64 `json:"speed,omitempty" yaml:"speed,omitempty"` // 0.25 to 4.0
	ResponseFormat string  `json:"responseFormat,omitempty" yaml:"responseFormat,omitempty"`
	Remark         string  `json:"remark,omitempty" yaml:"remark,omitempty"`
}

// AudioGenerateResult identifies the stored audio file.
type AudioGenerateResult struct {
	AudioID  int64  `json:"audio_id" yaml:"audio_id"`
	FilePath string `json:"file_path" yaml:"file_path"`
}

// Voice is a selectable speech voice.
type Voice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// TTSConfigOption is the summary of a TTS configuration offered when generating audio.
type TTSConfigOption struct {
	ConfigID   int64  `json:"configId" yaml:"configId"`
	ConfigName string `json:"configName" yaml:"configName"`
	APIURL     string `json:"apiUrl,omitempty" yaml:"apiUrl,omitempty"`
	APIModel   string `json:"apiModel,omitempty" yaml:"apiModel,omitempty"`
	IsDefault  string `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
}

// Book is a library catalog entry.
type Book struct {
	BookID      int64   `json:"bookId,omitempty" yaml:"bookId,omitempty"`
	BookName    string  `json:"bookName,omitempty" yaml:"bookName,omitempty"`
	Author      string  `json:"author,omitempty" yaml:"author,omitempty"`
	ISBN        string  `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Publisher   string  `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublishDate *Date   `json:"publishDate,omitempty" yaml:"publishDate,omitempty"`
	Price       float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Category    string  `json:"category,omitempty" yaml:"category,omitempty"`
	Stock       int64   `json:"stock,omitempty" yaml:"stock,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	CoverImage  string  `json:"coverImage,omitempty" yaml:"coverImage,omitempty"`
	Status      string  `json:"status,omitempty" yaml:"status,omitempty"`

	Audit `yaml:",inline"`
}

// BookQuery filters book lists and exports.
type BookQuery struct {
	PageQuery `yaml:",inline"`

	BookName  string `json:"bookName,omitempty" yaml:"bookName,omitempty"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	ISBN      string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Demo is the scaffold sample record.
type Demo struct {
	ID       int64  `json:"id,omitempty" yaml:"id,omitempty"`
	DemoName string `json:"demoName,omitempty" yaml:"demoName,omitempty"`
	Status   string `json:"status,omitempty" yaml:"status,omitempty"`
}

// DemoQuery filters demo lists.
type DemoQuery struct {
	PageQuery `yaml:",inline"`

	DemoName string `json:"demoName,omitempty" yaml:"demoName,omitempty"`
	Status   string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Student is a student information record.
type Student struct {
	StudentID      int64  `json:"studentId,omitempty" yaml:"studentId,omitempty"`
	StudentName    string `json:"studentName,omitempty" yaml:"studentName,omitempty"`
	StudentNo      string `json:"studentNo,omitempty" yaml:"studentNo,omitempty"`
	Gender         string `json:"gender,omitempty" yaml:"gender,omitempty"` // "0" male, "1" female
	Age            int    `json:"age,omitempty" yaml:"age,omitempty"`
	Phone          string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email          string `json:"email,omitempty" yaml:"email,omitempty"`
	ClassName      string `json:"className,omitempty" yaml:"className,omitempty"`
	Major          string `json:"major,omitempty" yaml:"major,omitempty"`
	EnrollmentDate *Date  `json:"enrollmentDate,omitempty" yaml:"enrollmentDate,omitempty"`
	Status         string `json:"status,omitempty" yaml:"status,omitempty"` // "0" enrolled, "1" suspended, "2" graduated

	Audit `yaml:",inline"`
}

// StudentQuery filters student lists.
type StudentQuery struct {
	PageQuery `yaml:",inline"`

	StudentName string `json:"studentName,omitempty" yaml:"studentName,omitempty"`
	StudentNo   string `json:"studentNo,omitempty" yaml:"studentNo,omitempty"`
	Gender      string `json:"gender,omitempty" yaml:"gender,omitempty"`
	ClassName   string `json:"className,omitempty" yaml:"className,omitempty"`
	Major       string `json:"major,omitempty" yaml:"major,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
}

// TTSConfig is a stored text-to-speech API configuration.
type TTSConfig struct {
	ConfigID   int64  `json:"configId,omitempty" yaml:"configId,omitempty"`
	UserID     int64  `json:"userId,omitempty" yaml:"userId,omitempty"`
	ConfigName string `json:"configName,omitempty" yaml:"configName,omitempty"`
	APIURL     string `json:"apiUrl,omitempty" yaml:"apiUrl,omitempty"`
	APIKey     string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	APIModel   string `json:"apiModel,omitempty" yaml:"apiModel,omitempty"`
	IsDefault  string `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
	Status     string `json:"status,omitempty" yaml:"status,omitempty"`

	Audit `yaml:",inline"`
}

// TTSConfigQuery filters TTS configuration lists and exports.
type TTSConfigQuery struct {
	PageQuery `yaml:",inline"`

	ConfigName string `json:"configName,omitempty" yaml:"configName,omitempty"`
	APIModel   string `json:"apiModel,omitempty" yaml:"apiModel,omitempty"`
	IsDefault  string `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
	Status     string `json:"status,omitempty" yaml:"status,omitempty"`
}

// AudioService manages generated audio.
type AudioService struct {
	*Resource[Audio, AudioQuery]
}

// Generate synthesizes speech and stores the result as a new audio record.
func (s *AudioService) Generate(ctx context.Context, req *AudioGenerate) (*AudioGenerateResult, error) {
	resp, err := s.send(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(s.spec.Base, "generate"),
		Method: transport.MethodPost,
		Body:   req,
	})
	if err != nil {
		return nil, err
	}
	return decodeData[AudioGenerateResult](resp)
}

// Voices lists the voices the server can synthesize.
func (s *AudioService) Voices(ctx context.Context) ([]Voice, error) {
	resp, err := s.send(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(s.spec.Base, "voices", "list"),
		Method: transport.MethodGet,
	})
	if err != nil {
		return nil, err
	}
	voices, err := decodeData[[]Voice](resp)
	if err != nil {
		return nil, err
	}
	return *voices, nil
}

// TTSConfigs lists the caller's enabled TTS configurations.
func (s *AudioService) TTSConfigs(ctx context.Context) ([]TTSConfigOption, error) {
	resp, err := s.send(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(s.spec.Base, "ttsConfigs", "list"),
		Method: transport.MethodGet,
	})
	if err != nil {
		return nil, err
	}
	configs, err := decodeData[[]TTSConfigOption](resp)
	if err != nil {
		return nil, err
	}
	return *configs, nil
}

// Download fetches the audio file. The body is returned as-is.
func (s *AudioService) Download(ctx context.Context, id ID) (*File, error) {
	return s.download(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(s.spec.Base, "download", string(id)),
		Method: transport.MethodGet,
	})
}

// Exporter adds the spreadsheet export action to a resource.
type Exporter[T any, Q any] struct {
	*Resource[T, Q]
}

// Export downloads the filtered records as an xlsx workbook. Filters are
// posted as form fields.
func (s *Exporter[T, Q]) Export(ctx context.Context, query *Q) (*File, error) {
	form := transport.Query{}
	if query != nil {
		q, err := toQuery(query)
		if err != nil {
			return nil, err
		}
		if q != nil {
			form = q
		}
	}
	return s.download(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(s.spec.Base, "export"),
		Method: transport.MethodPost,
		Form:   form,
	})
}

// BookService manages books.
type BookService = Exporter[Book, BookQuery]

// TTSConfigService manages TTS configurations.
type TTSConfigService = Exporter[TTSConfig, TTSConfigQuery]

// DemoService manages demo records.
type DemoService = Resource[Demo, DemoQuery]

// StudentService manages student records.
type StudentService = Resource[Student, StudentQuery]
