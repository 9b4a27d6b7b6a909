// Package commands defines the bb84 CLI and wires dependencies for subcommands.
//
// Commands
//
//   - serve          Run the session server (HTTP, WebSocket, metrics)
//   - simulate       Run one BB84 exchange locally or on the server
//   - status         Print the server's session status
//   - reset          Reset the server's session
//   - send           Post a chat message, optionally OTP-encrypted
//   - messages       List chat messages, optionally decrypting them
//   - otp            Encrypt or decrypt text with a key bit string
//
// # Implementation
//
// The root command loads configuration through viper (defaults, --config
// YAML file, BB84_* environment, flags) and builds the logger and client-side
// app before any subcommand runs. serve builds the server graph itself.
package commands
