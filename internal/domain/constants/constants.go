// Package constants contains well-known string values shared across layers.
package constants

// Deployment environments.
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Pub/Sub providers accepted by the pubsub.provider setting.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
	PubSubProviderMemory = "memory"
)

// Mail providers accepted by the mail.provider setting.
const (
	MailProviderSendGrid = "sendgrid"
	MailProviderLog      = "log"
)

// Message attribute keys carried on published mail events.
const (
	AttrRequestID = "request_id"
	AttrEventID   = "event_id"
	AttrKind      = "kind"
)
