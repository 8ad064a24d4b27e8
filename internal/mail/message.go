package mail

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	netmail "net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Envelope is a normalized inbound mail message: decoded subject, bare
// lowercase sender address and the preferred plain-text body.
type Envelope struct {
	Subject string
	Sender  string
	Body    string
}

// ParseEnvelope parses raw RFC 822 bytes into an Envelope. Header decoding
// and body extraction are lossy by design: they degrade, they never fail.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	msg, err := netmail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Subject: DecodeSubject(msg.Header.Get("Subject")),
		Sender:  NormalizeAddress(msg.Header.Get("From")),
		Body:    extractText(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), msg.Body),
	}, nil
}

// DecodeSubject decodes RFC 2047 encoded-words in a subject header.
// Undecodable input is returned as-is.
func DecodeSubject(subject string) string {
	subject = strings.TrimSpace(strings.NewReplacer("\r", "", "\n", "").Replace(subject))
	if subject == "" {
		return ""
	}

	dec := mime.WordDecoder{CharsetReader: charsetReader}
	decoded, err := dec.DecodeHeader(subject)
	if err != nil {
		return subject
	}
	return decoded
}

// NormalizeAddress reduces a From header to a bare lowercase address,
// stripping any display-name wrapper ("Name <addr>" → "addr").
func NormalizeAddress(from string) string {
	if addr, err := netmail.ParseAddress(from); err == nil {
		return strings.ToLower(addr.Address)
	}

	// Manual angle-bracket strip for headers net/mail refuses
	if i := strings.Index(from, "<"); i >= 0 {
		from = strings.TrimSuffix(strings.TrimSpace(from[i+1:]), ">")
	}
	return strings.ToLower(strings.TrimSpace(from))
}

// extractText returns the first text/plain part of the message, walking
// nested multiparts. Returns "" when no text part exists.
func extractText(contentType, cte string, r io.Reader) string {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		data, _ := io.ReadAll(decodeCTE(r, cte))
		return decodeCharset(data, params["charset"])
	}

	mr := multipart.NewReader(r, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err != nil {
			return ""
		}

		partType, partParams, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		switch {
		case strings.HasPrefix(partType, "multipart/"):
			if text := extractText(part.Header.Get("Content-Type"), "", part); text != "" {
				return text
			}
		case partType == "text/plain" || partType == "":
			data, _ := io.ReadAll(decodeCTE(part, part.Header.Get("Content-Transfer-Encoding")))
			return decodeCharset(data, partParams["charset"])
		}
	}
}

// decodeCTE wraps r with the transfer-encoding decoder the part declares.
func decodeCTE(r io.Reader, cte string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(cte)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	}
	return r
}

// decodeCharset converts part bytes to a string. UTF-8 is preferred; on
// invalid UTF-8 (or an explicit 8-bit charset) the bytes are transliterated
// instead of raising.
func decodeCharset(data []byte, charset string) string {
	if cm := lookupCharmap(charset); cm != nil {
		if decoded, err := cm.NewDecoder().Bytes(data); err == nil {
			return string(decoded)
		}
	}
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(decoded)
}

// lookupCharmap maps the charsets seen in expert replies to decoders.
func lookupCharmap(charset string) *charmap.Charmap {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1
	case "windows-1252":
		return charmap.Windows1252
	case "iso-8859-8", "iso-8859-8-i":
		return charmap.ISO8859_8
	case "windows-1255":
		return charmap.Windows1255
	}
	return nil
}

// charsetReader lets the RFC 2047 word decoder handle the same 8-bit
// charsets as body decoding.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	if cm := lookupCharmap(charset); cm != nil {
		return cm.NewDecoder().Reader(input), nil
	}
	return input, nil
}
