package twilio

import (
	"encoding/xml"
	"fmt"
)

// TwiML call-control document: <Record/> enables recording of both sides,
// <Connect><Stream/></Connect> sends the call audio to our websocket.

type twimlResponse struct {
	XMLName xml.Name     `xml:"Response"`
	Record  twimlRecord  `xml:"Record"`
	Connect twimlConnect `xml:"Connect"`
}

type twimlRecord struct {
	Action                       string `xml:"action,attr"`
	RecordingStatusCallback      string `xml:"recordingStatusCallback,attr"`
	RecordingStatusCallbackEvent string `xml:"recordingStatusCallbackEvent,attr"`
	Timeout                      int    `xml:"timeout,attr"`
	Transcribe                   bool   `xml:"transcribe,attr"`
	PlayBeep                     bool   `xml:"playBeep,attr"`
}

type twimlConnect struct {
	Stream twimlStream `xml:"Stream"`
}

type twimlStream struct {
	URL string `xml:"url,attr"`
}

// CallControl renders the TwiML answer for an incoming call: record the
// conversation and stream its media to this host's websocket endpoint.
func CallControl(hostname string) ([]byte, error) {
	doc := twimlResponse{
		Record: twimlRecord{
			Action:                       fmt.Sprintf("https://%s/recording-status", hostname),
			RecordingStatusCallback:      fmt.Sprintf("https://%s/recording-status", hostname),
			RecordingStatusCallbackEvent: "completed",
			Timeout:                      10,
			Transcribe:                   false,
			PlayBeep:                     false,
		},
		Connect: twimlConnect{
			Stream: twimlStream{URL: fmt.Sprintf("wss://%s/media-stream", hostname)},
		},
	}
	return xml.MarshalIndent(doc, "", "  ")
}
