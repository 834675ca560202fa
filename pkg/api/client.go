package api

import (
	"github.com/ruoyi-fastapi/ruoyi-go/internal/transport"
)

// Resource declarations. Paths follow the admin frontend.
var (
	ChannelSpec   = Spec{Name: "notify.channel", Title: "notify channel", Base: "/notify/channel", IDField: "channelId"}
	KeySpec       = Spec{Name: "notify.key", Title: "notify key", Base: "/notify/key", IDField: "keyId"}
	LogSpec       = Spec{Name: "notify.log", Title: "notify log", Base: "/notify/log", IDField: "logId"}
	PlatformSpec  = Spec{Name: "notify.platform", Title: "notify platform", Base: "/notify/platform", IDField: "platformId"}
	AudioSpec     = Spec{Name: "system.audio", Title: "audio", Base: "/system/audio", IDField: "audioId"}
	BookSpec      = Spec{Name: "system.book", Title: "book", Base: "/system/book", IDField: "bookId"}
	DemoSpec      = Spec{Name: "system.demo", Title: "demo", Base: "/system/demo", IDField: "id"}
	StudentSpec   = Spec{Name: "student.info", Title: "student", Base: "/student/info", IDField: "studentId"}
	TTSConfigSpec = Spec{Name: "system.ttsConfig", Title: "TTS config", Base: "/system/ttsConfig", IDField: "configId"}
)

// Specs returns every CRUD resource declaration.
func Specs() []Spec {
	return []Spec{
		ChannelSpec, KeySpec, LogSpec, PlatformSpec,
		AudioSpec, BookSpec, DemoSpec, StudentSpec, TTSConfigSpec,
	}
}

// Client groups the adapters that share one dispatcher.
type Client struct {
	Channels   *ChannelService
	Keys       *KeyService
	Logs       *LogService
	Platforms  *PlatformService
	Audio      *AudioService
	Books      *BookService
	Demos      *DemoService
	Students   *StudentService
	TTSConfigs *TTSConfigService
	Send       *SendService
}

// New binds every adapter to d.
func New(d transport.Dispatcher) *Client {
	return &Client{
		Channels:   &ChannelService{NewResource[NotifyChannel, NotifyChannelQuery](d, ChannelSpec)},
		Keys:       &KeyService{NewResource[NotifyKey, NotifyKeyQuery](d, KeySpec)},
		Logs:       NewResource[NotifyLog, NotifyLogQuery](d, LogSpec),
		Platforms:  NewResource[NotifyPlatform, NotifyPlatformQuery](d, PlatformSpec),
		Audio:      &AudioService{NewResource[Audio, AudioQuery](d, AudioSpec)},
		Books:      &BookService{NewResource[Book, BookQuery](d, BookSpec)},
		Demos:      NewResource[Demo, DemoQuery](d, DemoSpec),
		Students:   NewResource[Student, StudentQuery](d, StudentSpec),
		TTSConfigs: &TTSConfigService{NewResource[TTSConfig, TTSConfigQuery](d, TTSConfigSpec)},
		Send:       NewSendService(d),
	}
}
