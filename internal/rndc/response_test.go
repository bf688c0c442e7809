package rndc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	acceptedEnvelope = `<?xml version="1.0" encoding="UTF-8"?>` +
		`<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"><SOAP-ENV:Body>` +
		`<NS1:AtenderMensajeRNDCResponse xmlns:NS1="urn:BPMServicesIntf-IBPMServices">` +
		`<return>&lt;?xml version="1.0" encoding="ISO-8859-1" ?&gt;&lt;root&gt;&lt;ingresoid&gt;98765&lt;/ingresoid&gt;&lt;/root&gt;</return>` +
		`</NS1:AtenderMensajeRNDCResponse></SOAP-ENV:Body></SOAP-ENV:Envelope>`

	rejectedEnvelope = `<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"><SOAP-ENV:Body>` +
		`<NS1:AtenderMensajeRNDCResponse xmlns:NS1="urn:BPMServicesIntf-IBPMServices">` +
		`<return>&lt;root&gt;&lt;ErrorMSG&gt;REM020: La remesa ya fue registrada&lt;/ErrorMSG&gt;&lt;/root&gt;</return>` +
		`</NS1:AtenderMensajeRNDCResponse></SOAP-ENV:Body></SOAP-ENV:Envelope>`

	faultEnvelope = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>` +
		`<soap:Fault><faultcode>soap:Server</faultcode><faultstring>Access violation</faultstring></soap:Fault>` +
		`</soap:Body></soap:Envelope>`

	consultaEnvelope = `<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"><SOAP-ENV:Body>` +
		`<NS1:AtenderMensajeRNDCResponse xmlns:NS1="urn:BPMServicesIntf-IBPMServices"><return>` +
		`&lt;root&gt;&lt;documento&gt;&lt;ingresoid&gt;555&lt;/ingresoid&gt;&lt;fechaing&gt;2025/04/19&lt;/fechaing&gt;&lt;/documento&gt;&lt;/root&gt;` +
		`</return></NS1:AtenderMensajeRNDCResponse></SOAP-ENV:Body></SOAP-ENV:Envelope>`
)

func TestClassify_ConfirmedSuccess(t *testing.T) {
	resp := Classify(acceptedEnvelope)
	assert.True(t, resp.Success)
	assert.Equal(t, ConfidenceConfirmed, resp.Confidence)
	assert.Equal(t, "98765", resp.IngresoID)
	assert.Equal(t, acceptedEnvelope, resp.Raw)
}

func TestClassify_ConfirmedRejection(t *testing.T) {
	resp := Classify(rejectedEnvelope)
	assert.False(t, resp.Success)
	assert.Equal(t, ConfidenceConfirmed, resp.Confidence)
	assert.Equal(t, "REM020: La remesa ya fue registrada", resp.Mensaje)
}

func TestClassify_Fault(t *testing.T) {
	resp := Classify(faultEnvelope)
	assert.False(t, resp.Success)
	assert.Equal(t, ConfidenceConfirmed, resp.Confidence)
	assert.Equal(t, "Access violation", resp.Mensaje)
}

func TestClassify_ConsultaDocuments(t *testing.T) {
	resp := Classify(consultaEnvelope)
	assert.True(t, resp.Success)
	assert.Equal(t, ConfidenceConfirmed, resp.Confidence)
	if assert.Len(t, resp.Documentos, 1) {
		assert.Equal(t, "2025/04/19", resp.Documentos[0]["FECHAING"])
	}
	assert.Equal(t, "555", resp.IngresoID)
}

func TestClassify_BestEffortFallback(t *testing.T) {
	ok := Classify(`<respuesta><estado>OK</estado><consecutivo>R-9</consecutivo><mensaje>Registrado</mensaje></respuesta>`)
	assert.True(t, ok.Success)
	assert.Equal(t, ConfidenceAssumed, ok.Confidence)
	assert.Equal(t, "R-9", ok.Consecutivo)
	assert.Equal(t, "Registrado", ok.Mensaje)
	assert.Equal(t, "OK", ok.Estado)

	bad := Classify("Internal ERROR while processing")
	assert.False(t, bad.Success)
	assert.Equal(t, ConfidenceAssumed, bad.Confidence)
	assert.Equal(t, "Internal ERROR while processing", bad.Mensaje)
}

func TestClassify_EnvelopeWithoutRootFallsBack(t *testing.T) {
	body := `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><x><return>aceptado</return></x></soap:Body></soap:Envelope>`
	resp := Classify(body)
	assert.True(t, resp.Success)
	assert.Equal(t, ConfidenceAssumed, resp.Confidence)
}
