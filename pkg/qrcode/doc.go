// Package qrcode renders strings, typically otpauth:// provisioning URIs,
// as PNG QR codes or base64 data URLs.
package qrcode
