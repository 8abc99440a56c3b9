package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldItemID     = "item_id"
	FieldItemKind   = "item_kind"
	FieldValue      = "value"
	FieldCount      = "animal_count"
	FieldQueue      = "queue"
	FieldExchange   = "exchange"
	FieldRecipient  = "recipient"
)

// Components defines standard component names.
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentCalculator = "calculator"
	ComponentFeedback   = "feedback"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentMail       = "mail"
	ComponentCache      = "cache"
	ComponentAuth       = "auth"
	ComponentTrace      = "trace"
)

// Operations defines standard operation names.
const (
	OpRead       = "read"
	OpUpdate     = "update"
	OpInsert     = "insert"
	OpDelete     = "delete"
	OpRename     = "rename"
	OpInitialize = "initialize"
	OpValidate   = "validate"
	OpPublish    = "publish"
	OpConsume    = "consume"
	OpSend       = "send"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)
