// Package chunker segments raw conversation text into analyzable chunks.
//
// Chat exports (WhatsApp, Telegram, or generic "Name: text" logs) are parsed
// into messages, then grouped into chunks on speaker changes, time gaps, and
// a size ceiling. Plain text without recognizable structure falls back to a
// single paragraph chunk so downstream stages always have input.
package chunker
