package stt

import (
	"context"
	"fmt"
	"io"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/voicebridge/server/domain/repositories"
)

// GoogleSpeechToText transcribes one complete utterance with Google Cloud
// Speech-to-Text. The call runs over the streaming RPC in single-utterance
// mode so short clips return as soon as the endpointer fires.
type GoogleSpeechToText struct{}

func NewGoogleSpeechToText() *GoogleSpeechToText {
	return &GoogleSpeechToText{}
}

// TranscribeAudio converts audio data to text.
func (g *GoogleSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	if len(audioData) == 0 {
		return "", fmt.Errorf("no audio data received")
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	stream, err := client.StreamingRecognize(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to open recognize stream: %w", err)
	}

	encoding, err := audioEncoding(config.Encoding)
	if err != nil {
		return "", err
	}

	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        encoding,
					SampleRateHertz: int32(config.SampleRate),
					LanguageCode:    config.Language,
				},
				InterimResults:  false,
				SingleUtterance: true,
			},
		},
	}); err != nil {
		return "", fmt.Errorf("failed to send recognition config: %w", err)
	}

	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audioData,
		},
	}); err != nil {
		return "", fmt.Errorf("failed to send audio data: %w", err)
	}

	if err := stream.CloseSend(); err != nil {
		return "", fmt.Errorf("failed to close send stream: %w", err)
	}

	var transcript string
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return transcript, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to receive recognition result: %w", err)
		}
		for _, result := range resp.Results {
			if result.IsFinal && len(result.Alternatives) > 0 {
				transcript = result.Alternatives[0].Transcript
			}
		}
	}
}

// audioEncoding converts a config encoding name to the Speech API enum.
func audioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "WAV", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
