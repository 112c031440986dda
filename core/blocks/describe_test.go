package blocks_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jdelaire/tgblocks/core/blocks"
)

func TestDescribe(t *testing.T) {
	r := blocks.NewRegistry()
	blocks.RegisterBuiltin(r, &spyBot{})

	info := blocks.Describe(r)
	if info.ID != "telegramBot" || info.Name != "Telegram Bot" {
		t.Errorf("id/name = %q/%q", info.ID, info.Name)
	}
	if info.Color1 != "#0088cc" || info.Color2 != "#005577" || info.Color3 != "#003f4f" {
		t.Errorf("colors = %s %s %s", info.Color1, info.Color2, info.Color3)
	}
	if len(info.Blocks) != 11 {
		t.Fatalf("blocks = %d, want 11", len(info.Blocks))
	}

	want := blocks.BlockDoc{
		Opcode:    "deleteMessage",
		BlockType: blocks.KindCommand,
		Text:      "delete message [messageId]",
		Arguments: map[string]blocks.ArgumentDoc{"messageId": {Type: "string"}},
	}
	if diff := cmp.Diff(want, info.Blocks[7]); diff != "" {
		t.Errorf("deleteMessage doc mismatch (-want +got):\n%s", diff)
	}

	if info.Blocks[1].BlockType != blocks.KindHat {
		t.Errorf("whenMessageReceived type = %s, want hat", info.Blocks[1].BlockType)
	}
	if info.Blocks[10].BlockType != blocks.KindReporter {
		t.Errorf("getChatMessages type = %s, want reporter", info.Blocks[10].BlockType)
	}
	if len(info.Blocks[8].Arguments) != 0 {
		t.Errorf("startPolling arguments = %v, want none", info.Blocks[8].Arguments)
	}
}

func TestDescribeJSON(t *testing.T) {
	r := blocks.NewRegistry()
	blocks.RegisterBuiltin(r, &spyBot{})

	data, err := json.Marshal(blocks.Describe(r))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	json.Unmarshal(data, &raw)
	for _, key := range []string{"id", "name", "menuIconURI", "color1", "color2", "color3", "blocks"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("descriptor JSON missing %q", key)
		}
	}
	first := raw["blocks"].([]any)[0].(map[string]any)
	if first["opcode"] != "setToken" || first["blockType"] != "command" {
		t.Errorf("first block = %v", first)
	}
}
