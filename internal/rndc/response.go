package rndc

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Confidence tells how a response was classified.
type Confidence string

const (
	// ConfidenceConfirmed comes from decoding the SOAP envelope and the RNDC
	// <root> payload.
	ConfidenceConfirmed Confidence = "confirmed"
	// ConfidenceAssumed comes from the substring heuristic. It is lossy: a
	// body that merely lacks the words "error" and "fault" counts as success.
	ConfidenceAssumed Confidence = "assumed"
)

// Response is a classified RNDC reply.
type Response struct {
	Success     bool                `json:"success"`
	Confidence  Confidence          `json:"confidence"`
	IngresoID   string              `json:"ingresoId,omitempty"`
	Consecutivo string              `json:"consecutivo,omitempty"`
	Mensaje     string              `json:"mensaje,omitempty"`
	Estado      string              `json:"estado,omitempty"`
	Documentos  []map[string]string `json:"documentos,omitempty"`
	Raw         string              `json:"raw"`
}

type soapEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault     *soapFault    `xml:"Fault"`
		Responses []rpcResponse `xml:",any"`
	} `xml:"Body"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
	Detail string `xml:"detail"`
}

type rpcResponse struct {
	XMLName xml.Name
	Return  *rpcReturn `xml:"return"`
}

// rpcReturn holds the RNDC payload, either as an escaped string (what the
// service sends) or as nested markup.
type rpcReturn struct {
	Text string    `xml:",chardata"`
	Root *rndcRoot `xml:"root"`
}

type rndcRoot struct {
	IngresoID  string          `xml:"ingresoid"`
	ErrorMSG   string          `xml:"ErrorMSG"`
	Documentos []rndcDocumento `xml:"documento"`
}

type rndcDocumento struct {
	Fields []rndcField `xml:",any"`
}

type rndcField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Classify interprets a 2xx response body. The structured path is tried
// first; the heuristic runs only when the body is not an RNDC envelope.
func Classify(body string) Response {
	if resp, ok := classifyStructured(body); ok {
		return resp
	}
	return classifyBestEffort(body)
}

func classifyStructured(body string) (Response, bool) {
	var env soapEnvelope
	if err := newDecoder(strings.NewReader(body), true).Decode(&env); err != nil {
		return Response{}, false
	}

	if f := env.Body.Fault; f != nil {
		msg := strings.TrimSpace(f.String)
		if msg == "" {
			msg = strings.TrimSpace(f.Code)
		}
		return Response{
			Success:    false,
			Confidence: ConfidenceConfirmed,
			Mensaje:    msg,
			Raw:        body,
		}, true
	}

	for _, r := range env.Body.Responses {
		if r.Return == nil {
			continue
		}
		root := r.Return.Root
		if root == nil {
			root = decodeRoot(r.Return.Text)
		}
		if root == nil {
			continue
		}
		return fromRoot(root, body)
	}
	return Response{}, false
}

func fromRoot(root *rndcRoot, raw string) (Response, bool) {
	resp := Response{Confidence: ConfidenceConfirmed, Raw: raw}
	switch {
	case strings.TrimSpace(root.ErrorMSG) != "":
		resp.Mensaje = strings.TrimSpace(root.ErrorMSG)
		return resp, true
	case strings.TrimSpace(root.IngresoID) != "":
		resp.Success = true
		resp.IngresoID = strings.TrimSpace(root.IngresoID)
		return resp, true
	case len(root.Documentos) > 0:
		resp.Success = true
		for _, d := range root.Documentos {
			doc := make(map[string]string, len(d.Fields))
			for _, f := range d.Fields {
				doc[strings.ToUpper(f.XMLName.Local)] = strings.TrimSpace(f.Value)
			}
			resp.Documentos = append(resp.Documentos, doc)
		}
		if id := resp.Documentos[0]["INGRESOID"]; id != "" {
			resp.IngresoID = id
		}
		return resp, true
	}
	return Response{}, false
}

func decodeRoot(text string) *rndcRoot {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	// the envelope decoder already transcoded the payload to UTF-8
	var root rndcRoot
	if err := newDecoder(strings.NewReader(text), false).Decode(&root); err != nil {
		return nil
	}
	return &root
}

// newDecoder accepts the ISO-8859-1 declaration RNDC puts on its payloads.
// With transcode unset the declared charset is ignored.
func newDecoder(r io.Reader, transcode bool) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		if !transcode {
			return input, nil
		}
		switch strings.ToLower(label) {
		case "utf-8", "utf8":
			return input, nil
		case "iso-8859-1", "latin1", "latin-1":
			return charmap.ISO8859_1.NewDecoder().Reader(input), nil
		case "windows-1252", "cp1252":
			return charmap.Windows1252.NewDecoder().Reader(input), nil
		default:
			return nil, fmt.Errorf("unsupported charset %q", label)
		}
	}
	return dec
}

var (
	entityUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")

	consecutivoRe = fieldPattern("consecutivo")
	mensajeRe     = fieldPattern("mensaje")
	estadoRe      = fieldPattern("estado")
	ingresoIDRe   = fieldPattern("ingresoid")
)

func fieldPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<(?:[\w-]+:)?` + name + `\b[^>]*>(.*?)</`)
}

// classifyBestEffort is the schema-less fallback: any "error" or "fault" in
// the body is a failure, anything else is assumed to be a success.
func classifyBestEffort(body string) Response {
	text := entityUnescaper.Replace(body)
	lower := strings.ToLower(text)

	resp := Response{
		Success:     !strings.Contains(lower, "error") && !strings.Contains(lower, "fault"),
		Confidence:  ConfidenceAssumed,
		Consecutivo: firstMatch(consecutivoRe, text),
		Mensaje:     firstMatch(mensajeRe, text),
		Estado:      firstMatch(estadoRe, text),
		IngresoID:   firstMatch(ingresoIDRe, text),
		Raw:         body,
	}
	if !resp.Success && resp.Mensaje == "" {
		resp.Mensaje = snippet(body, 300)
	}
	return resp
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func snippet(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
