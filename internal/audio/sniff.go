package audio

// Format represents a detected audio container format
type Format string

const (
	FormatWAV     Format = "wav"
	FormatMP3     Format = "mp3"
	FormatFLAC    Format = "flac"
	FormatOgg     Format = "ogg"
	FormatUnknown Format = "unknown"
)

// Sniff inspects the leading bytes of an upload and reports the audio
// format, for logging only. The endpoint never rejects an upload by
// content; anything the predictor cannot read fails at prediction time.
func Sniff(header []byte) Format {
	if len(header) >= 12 && string(header[:4]) == "RIFF" && string(header[8:12]) == "WAVE" {
		return FormatWAV
	}
	if len(header) >= 4 && string(header[:4]) == "fLaC" {
		return FormatFLAC
	}
	if len(header) >= 4 && string(header[:4]) == "OggS" {
		return FormatOgg
	}
	if len(header) >= 3 && string(header[:3]) == "ID3" {
		return FormatMP3
	}
	// MP3 frame sync: 11 set bits
	if len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0 {
		return FormatMP3
	}
	return FormatUnknown
}
