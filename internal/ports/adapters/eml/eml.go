package eml

import (
	"fmt"
	"io"
	"strings"

	"github.com/jaytaylor/html2text"
	"github.com/jhillyerd/enmime"

	"github.com/phishshield/phishscore/internal/types"
)

// Adapter turns a raw RFC 5322 message into a scoring request. HTML-only
// bodies are converted here, text only, so link targets stay out of the
// scored body.
type Adapter struct {
	parser *enmime.Parser
}

func New() *Adapter {
	return &Adapter{parser: enmime.NewParser(enmime.DisableTextConversion(true))}
}

func (a *Adapter) Read(r io.Reader) (types.PredictRequest, error) {
	env, err := a.parser.ReadEnvelope(r)
	if err != nil {
		return types.PredictRequest{}, fmt.Errorf("read eml: %w", err)
	}

	body := env.Text
	if strings.TrimSpace(body) == "" && env.HTML != "" {
		body, err = html2text.FromString(env.HTML, html2text.Options{TextOnly: true})
		if err != nil {
			return types.PredictRequest{}, fmt.Errorf("html body: %w", err)
		}
	}

	req := types.PredictRequest{
		Subject:  env.GetHeader("Subject"),
		Body:     body,
		FromAddr: env.GetHeader("From"),
	}
	if id := strings.Trim(env.GetHeader("Message-ID"), "<> "); id != "" {
		req.MessageID = &id
	}
	// a malformed To header is not worth failing the message over
	if to, err := env.AddressList("To"); err == nil {
		for _, addr := range to {
			req.To = append(req.To, addr.Address)
		}
	}
	return req, nil
}
