// Package console adapts a terminal to the appliance's ports: typed
// utterances as the command source, a status line as the frame sink and
// the terminal bell as the chime.
package console
