//go:build !ocr

package ocr

// Client stands in for the Tesseract client in builds without the ocr tag.
// New never returns one, so the methods only guard against misuse.
type Client struct{}

// New reports ErrOCRNotEnabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

func (c *Client) Close() error { return nil }

func (c *Client) Configure(Options) error { return ErrOCRNotEnabled }

func (c *Client) RecognizeWords([]byte) ([]Word, error) { return nil, ErrOCRNotEnabled }
