// Package services implements the driving port interfaces.
// Services contain the core logic of the chat session and orchestrate
// calls to driven ports (adapters).
//
// Services depend only on the domain, the ports and the logger.
package services
