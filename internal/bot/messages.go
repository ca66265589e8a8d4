package bot

// User-facing reply texts. Kept in one place so the handler logic stays free
// of literals and the wording can be reviewed at a glance.
const (
	msgStart = "Hi! Send me a voice message or an audio file and I will reply " +
		"with a transcription.\n\n" +
		"Supported: Telegram voice messages, audio files and audio documents " +
		"up to 20 MB."

	msgHelp = "Commands:\n" +
		"/start - what this bot does\n" +
		"/help - this message\n\n" +
		"Send a voice message or an audio file to get a transcription."

	msgProcessing = "Transcribing, one moment..."

	msgAccessDenied = "Access restricted. This bot is private."

	msgUnsupportedFormat = "I could not process this file. Please send an " +
		"audio file in a common format (ogg, mp3, m4a, wav, flac)."

	msgFileTooLarge = "The file is too large. Telegram bots can only download " +
		"files up to 20 MB."

	msgServiceUnavailable = "The transcription service is unavailable right " +
		"now. Please try again in a few minutes."

	msgTimeout = "The transcription took too long and timed out. Please try " +
		"again with a shorter recording."

	msgDownloadError = "I could not download the file from Telegram. Please " +
		"try sending it again."

	msgEmptyTranscription = "I could not recognize any speech in this recording."

	msgGeneralError = "Something went wrong while processing your message. " +
		"Please try again."
)
