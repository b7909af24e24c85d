package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/notify-template/pkg/locale"
	"github.com/grovetools/notify-template/pkg/payload"
)

// emit writes doc to outputPath, or to stdout followed by a newline.
func (p *Pipeline) emit(doc []byte, outputPath string) error {
	if outputPath == "" {
		if _, err := fmt.Fprintf(p.stdout, "%s\n", doc); err != nil {
			return fmt.Errorf("%w: failed to write payload to stdout: %w", ErrIO, err)
		}
		return nil
	}

	if err := writeFile(outputPath, doc); err != nil {
		return fmt.Errorf("%w: failed to write payload to %s: %w", ErrIO, outputPath, err)
	}
	p.logger.WithField("path", outputPath).Info("Saved message payload")
	return nil
}

func writeFile(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = f.Write(data)
	return err
}

// FallbackPayload returns the message sent when no payload could be generated.
func FallbackPayload(text string) ([]byte, error) {
	return payload.Marshal(payload.NewMapping().
		Set("type", payload.String("message")).
		Set("text", payload.String(text)))
}

// WriteFallback writes the fallback message for msgs to w, followed by a newline.
func WriteFallback(w io.Writer, msgs locale.Messages) error {
	doc, err := FallbackPayload(msgs.Fallback)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", doc)
	return err
}
