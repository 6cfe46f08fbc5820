package embed_data

import _ "embed"

//go:embed models_details.json
var ModelDetails []byte

//go:embed prompts/system_prompt.tmpl
var SystemPrompt []byte

//go:embed prompts/fix_prompt.tmpl
var FixPrompt []byte
