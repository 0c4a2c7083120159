package webhooks

// ParseChatReply pulls the assistant reply out of a chat webhook
// response. The hook returns the same bare-object or one-element-array
// envelope as the extraction hook.
func ParseChatReply(body []byte) (string, error) {
	return unwrapOutput(body)
}
