package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/tldrx/cmdref/internal/catalog"
	"github.com/tldrx/cmdref/internal/partition"
)

var chunkTemplate = template.Must(template.New("chunk").Parse(`/**
 * TL;DRx Commands Database - {{.Label}} Category
 *
 * Contains {{.Count}} commands related to {{.Topic}}.
 * Generated by tldrx split; edit the source catalog instead.
 *
 * @fileoverview {{.Label}} category commands for TL;DRx
 * @category {{.Name}}
 * @commands {{.Count}}
 */

/**
 * {{.Label}} category commands
 * @type {Array<Object>}
 */
const {{.Var}} = {{printf "%s" .Body}};

export { {{.Var}} };
export default {{.Var}};
`))

type chunkView struct {
	Name  string
	Label string
	Topic string
	Var   string
	Count int
	Body  []byte
}

// RenderChunk renders the artifact for one chunk
func RenderChunk(chunk partition.Chunk, format Format) ([]byte, error) {
	body, err := MarshalCommands(chunk.Commands)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chunk %s: %w", chunk.Name, err)
	}

	switch format {
	case FormatJSON:
		return append(body, '\n'), nil
	case FormatJS:
		var buf bytes.Buffer
		err := chunkTemplate.Execute(&buf, chunkView{
			Name:  chunk.Name,
			Label: partition.Label(chunk.Name),
			Topic: partition.Topic(chunk.Name),
			Var:   partition.VarName(chunk.Name),
			Count: len(chunk.Commands),
			Body:  body,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render chunk %s: %w", chunk.Name, err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// MarshalCommands encodes records as a 4-space indented JSON array. Records
// keep their original key order and HTML characters are left unescaped.
func MarshalCommands(cmds []catalog.Command) ([]byte, error) {
	if cmds == nil {
		cmds = []catalog.Command{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(cmds); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
