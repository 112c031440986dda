package blocks

// Extension metadata shown in the host's block menu.
const (
	ExtensionID   = "telegramBot"
	ExtensionName = "Telegram Bot"
	MenuIconURI   = "https://cdn.dribbble.com/userupload/22515003/file/original-bed70c3fcd37fc0a0a324ad3ab075cd3.jpg?resize=752x&vertical=center"
	Color1        = "#0088cc"
	Color2        = "#005577"
	Color3        = "#003f4f"
)

// Info is the declarative descriptor the host uses to build its menu.
type Info struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	MenuIconURI string     `json:"menuIconURI"`
	Color1      string     `json:"color1"`
	Color2      string     `json:"color2"`
	Color3      string     `json:"color3"`
	Blocks      []BlockDoc `json:"blocks"`
}

// BlockDoc describes one block.
type BlockDoc struct {
	Opcode    string                 `json:"opcode"`
	BlockType Kind                   `json:"blockType"`
	Text      string                 `json:"text"`
	Arguments map[string]ArgumentDoc `json:"arguments"`
}

// ArgumentDoc describes a block argument. Every argument is a string.
type ArgumentDoc struct {
	Type string `json:"type"`
}

// Describe builds the descriptor for every block in r.
func Describe(r *Registry) Info {
	info := Info{
		ID:          ExtensionID,
		Name:        ExtensionName,
		MenuIconURI: MenuIconURI,
		Color1:      Color1,
		Color2:      Color2,
		Color3:      Color3,
	}
	for _, b := range r.List() {
		doc := BlockDoc{
			Opcode:    b.Opcode(),
			BlockType: b.Kind(),
			Text:      b.Text(),
			Arguments: make(map[string]ArgumentDoc, len(b.Arguments())),
		}
		for _, name := range b.Arguments() {
			doc.Arguments[name] = ArgumentDoc{Type: "string"}
		}
		info.Blocks = append(info.Blocks, doc)
	}
	return info
}
