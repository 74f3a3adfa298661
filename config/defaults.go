package config

const (
	DefaultUserAvatar      = "/img/avatars/user.png"
	DefaultAssistantAvatar = "/img/Sevi/Sevi - L.png"
	DefaultGreeting        = "Sevi, your virtual assistant, is online. Start a new conversation!"
)

func DefaultSettings() *Settings {
	return &Settings{
		DataDirectory: "~/.local/share/sevi",
		Server: ServerConfig{
			BaseURL: "http://localhost:8080",
		},
		Assistant: AssistantConfig{
			Backend:         BackendLMS,
			UserAvatar:      DefaultUserAvatar,
			AssistantAvatar: DefaultAssistantAvatar,
			Greeting:        DefaultGreeting,
		},
		Keybindings: *DefaultKeybindings(),
	}
}

func GenerateSettingsTemplate() string {
	return `# Sevi Configuration
# Location: ~/.config/sevi/settings.toml
# This file uses TOML format: https://toml.io

# Directory for the debug log (SEVI_DEBUG=1)
data_directory = "~/.local/share/sevi"

[server]
# Base URL of the learning platform
base_url = "http://localhost:8080"

# Value of the Cookie header sent with every request (optional).
# Copy it from a logged-in browser session if the server requires one.
session_cookie = ""

# Request timeout in seconds. 0 waits for the transport to give up.
timeout_seconds = 0

[assistant]
# Where chat and help requests go:
#   "lms"       - the platform's /chat endpoints (default)
#   "openai"    - OpenAI directly (needs api_key)
#   "anthropic" - Anthropic directly (needs api_key)
#   "ollama"    - a local Ollama server
backend = "lms"

# model = ""
# api_key = ""
# base_url = ""

user_avatar = "/img/avatars/user.png"
assistant_avatar = "/img/Sevi/Sevi - L.png"
greeting = "Sevi, your virtual assistant, is online. Start a new conversation!"

[keybindings.modifiers]
primary = "alt"
secondary = "alt+shift"

[keybindings.actions]
# Per-action overrides, e.g.:
#   new_chat = "ctrl+n"
#   request_help = "ctrl+h"
`
}
