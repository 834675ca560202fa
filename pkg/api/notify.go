package api

import (
	"context"

	"github.com/ruoyi-fastapi/ruoyi-go/internal/transport"
)

// NotifyChannel is a webhook destination on a notify platform.
type NotifyChannel struct {
	ChannelID    int64  `json:"channelId,omitempty" yaml:"channelId,omitempty"`
	UserID       int64  `json:"userId,omitempty" yaml:"userId,omitempty"`
	PlatformID   int64  `json:"platformId,omitempty" yaml:"platformId,omitempty"`
	ChannelName  string `json:"channelName,omitempty" yaml:"channelName,omitempty"`
	WebhookKey   string `json:"webhookKey,omitempty" yaml:"webhookKey,omitempty"`
	WebhookURL   string `json:"webhookUrl,omitempty" yaml:"webhookUrl,omitempty"` // Overrides the platform template when set
	IsDefault    string `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`   // "0" no, "1" yes
	Status       string `json:"status,omitempty" yaml:"status,omitempty"`         // "0" normal, "1" disabled
	LastUsedTime *Time  `json:"lastUsedTime,omitempty" yaml:"lastUsedTime,omitempty"`
	UseCount     int64  `json:"useCount,omitempty" yaml:"useCount,omitempty"`

	Audit `yaml:",inline"`
}

// NotifyChannelQuery filters channel lists.
type NotifyChannelQuery struct {
	PageQuery `yaml:",inline"`

	PlatformID  int64  `json:"platformId,omitempty" yaml:"platformId,omitempty"`
	ChannelName string `json:"channelName,omitempty" yaml:"channelName,omitempty"`
	IsDefault   string `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
}

// NotifyKey is an API key that authorizes the public send endpoint.
type NotifyKey struct {
	KeyID         int64  `json:"keyId,omitempty" yaml:"keyId,omitempty"`
	UserID        int64  `json:"userId,omitempty" yaml:"userId,omitempty"`
	KeyName       string `json:"keyName,omitempty" yaml:"keyName,omitempty"`
	APIKey        string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	ChannelIDs    string `json:"channelIds,omitempty" yaml:"channelIds,omitempty"` // Comma separated channel ids
	DailyLimit    int64  `json:"dailyLimit,omitempty" yaml:"dailyLimit,omitempty"`
	DailyUsed     int64  `json:"dailyUsed,omitempty" yaml:"dailyUsed,omitempty"`
	TotalCount    int64  `json:"totalCount,omitempty" yaml:"totalCount,omitempty"`
	LastUsedTime  *Time  `json:"lastUsedTime,omitempty" yaml:"lastUsedTime,omitempty"`
	LastResetDate *Date  `json:"lastResetDate,omitempty" yaml:"lastResetDate,omitempty"`
	Status        string `json:"status,omitempty" yaml:"status,omitempty"`
	ExpireTime    *Time  `json:"expireTime,omitempty" yaml:"expireTime,omitempty"`

	Audit `yaml:",inline"`
}

// NotifyKeyQuery filters key lists.
type NotifyKeyQuery struct {
	PageQuery `yaml:",inline"`

	KeyName string `json:"keyName,omitempty" yaml:"keyName,omitempty"`
	APIKey  string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	Status  string `json:"status,omitempty" yaml:"status,omitempty"`
}

// APIKeyResult carries a freshly generated key.
type APIKeyResult struct {
	APIKey string `json:"api_key" yaml:"api_key"`
}

// NotifyLog records one delivery attempt.
type NotifyLog struct {
	LogID        int64  `json:"logId,omitempty" yaml:"logId,omitempty"`
	UserID       int64  `json:"userId,omitempty" yaml:"userId,omitempty"`
	KeyID        int64  `json:"keyId,omitempty" yaml:"keyId,omitempty"`
	ChannelID    int64  `json:"channelId,omitempty" yaml:"channelId,omitempty"`
	PlatformID   int64  `json:"platformId,omitempty" yaml:"platformId,omitempty"`
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	Content      string `json:"content,omitempty" yaml:"content,omitempty"`
	MsgType      string `json:"msgType,omitempty" yaml:"msgType,omitempty"`
	RequestData  string `json:"requestData,omitempty" yaml:"requestData,omitempty"`
	ResponseData string `json:"responseData,omitempty" yaml:"responseData,omitempty"`
	Status       string `json:"status,omitempty" yaml:"status,omitempty"` // "0" delivered, "1" failed
	ErrorMsg     string `json:"errorMsg,omitempty" yaml:"errorMsg,omitempty"`
	IPAddress    string `json:"ipAddress,omitempty" yaml:"ipAddress,omitempty"`
	SendTime     *Time  `json:"sendTime,omitempty" yaml:"sendTime,omitempty"`
	CostTime     int64  `json:"costTime,omitempty" yaml:"costTime,omitempty"` // Milliseconds
	CreateTime   *Time  `json:"createTime,omitempty" yaml:"createTime,omitempty"`
}

// NotifyLogQuery filters log lists.
type NotifyLogQuery struct {
	PageQuery `yaml:",inline"`

	KeyID     int64  `json:"keyId,omitempty" yaml:"keyId,omitempty"`
	ChannelID int64  `json:"channelId,omitempty" yaml:"channelId,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	MsgType   string `json:"msgType,omitempty" yaml:"msgType,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
}

// NotifyPlatform describes how to call one webhook provider.
type NotifyPlatform struct {
	PlatformID      int64  `json:"platformId,omitempty" yaml:"platformId,omitempty"`
	PlatformName    string `json:"platformName,omitempty" yaml:"platformName,omitempty"`
	PlatformCode    string `json:"platformCode,omitempty" yaml:"platformCode,omitempty"`
	PlatformIcon    string `json:"platformIcon,omitempty" yaml:"platformIcon,omitempty"`
	WebhookTemplate string `json:"webhookTemplate,omitempty" yaml:"webhookTemplate,omitempty"` // URL with a {key} placeholder
	RequestMethod   string `json:"requestMethod,omitempty" yaml:"requestMethod,omitempty"`
	ContentType     string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	BodyTemplate    string `json:"bodyTemplate,omitempty" yaml:"bodyTemplate,omitempty"`
	Status          string `json:"status,omitempty" yaml:"status,omitempty"`
	OrderNum        int    `json:"orderNum,omitempty" yaml:"orderNum,omitempty"`

	Audit `yaml:",inline"`
}

// NotifyPlatformQuery filters platform lists.
type NotifyPlatformQuery struct {
	PageQuery `yaml:",inline"`

	PlatformName string `json:"platformName,omitempty" yaml:"platformName,omitempty"`
	PlatformCode string `json:"platformCode,omitempty" yaml:"platformCode,omitempty"`
	Status       string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Audit holds the bookkeeping columns shared by most tables.
type Audit struct {
	CreateBy   string `json:"createBy,omitempty" yaml:"createBy,omitempty"`
	CreateTime *Time  `json:"createTime,omitempty" yaml:"createTime,omitempty"`
	UpdateBy   string `json:"updateBy,omitempty" yaml:"updateBy,omitempty"`
	UpdateTime *Time  `json:"updateTime,omitempty" yaml:"updateTime,omitempty"`
	Remark     string `json:"remark,omitempty" yaml:"remark,omitempty"`
}

// ChannelService manages notify channels.
type ChannelService struct {
	*Resource[NotifyChannel, NotifyChannelQuery]
}

// Test sends a probe message through the channel. The server reports a
// failed probe as an application error carrying the webhook's answer.
func (s *ChannelService) Test(ctx context.Context, id ID) (*Result, error) {
	return s.message(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(s.spec.Base, "test", string(id)),
		Method: transport.MethodPost,
	})
}

// KeyService manages notify API keys.
type KeyService struct {
	*Resource[NotifyKey, NotifyKeyQuery]
}

// Generate creates a key record with a server generated secret.
func (s *KeyService) Generate(ctx context.Context, key *NotifyKey) (*APIKeyResult, error) {
	resp, err := s.send(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(s.spec.Base, "generate"),
		Method: transport.MethodPost,
		Body:   key,
	})
	if err != nil {
		return nil, err
	}
	return decodeData[APIKeyResult](resp)
}

// Reset rotates the secret of an existing key.
func (s *KeyService) Reset(ctx context.Context, id ID) (*APIKeyResult, error) {
	resp, err := s.send(ctx, &transport.Descriptor{
		Path:   transport.JoinPath(s.spec.Base, "reset", string(id)),
		Method: transport.MethodPost,
	})
	if err != nil {
		return nil, err
	}
	return decodeData[APIKeyResult](resp)
}

// LogService reads delivery logs.
type LogService = Resource[NotifyLog, NotifyLogQuery]

// PlatformService manages notify platforms.
type PlatformService = Resource[NotifyPlatform, NotifyPlatformQuery]
