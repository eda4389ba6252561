package logging

// Standardized field names for structured logging.
const (
	FieldUserID          = "user_id"
	FieldMessageID       = "message_id"
	FieldAmount          = "amount"
	FieldDirection       = "direction"
	FieldDirectionSource = "direction_source"
	FieldCategory        = "category"
	FieldConfidence      = "confidence"
	FieldOutcome         = "outcome"
	FieldRow             = "row"
	FieldFile            = "file_path"
	FieldCount           = "count"
	FieldTextLength      = "text_length"
	FieldReason          = "reason"
	FieldError           = "error"
)
