package cmdtool

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"github.com/JoshPattman/jpf"
)

//go:embed command.tpl
var commandSystemPrompt string

var commandSystemTemplate = template.Must(template.New("command").Parse(commandSystemPrompt))

type commandPromptData struct {
	Program    string
	SamplesDir string
}

// commandPromptEncoder turns a task description into the messages sent to the text generator.
type commandPromptEncoder struct {
	data commandPromptData
}

var _ jpf.Encoder[string] = &commandPromptEncoder{}

// getCommandPipeline asks model for a single command line and returns its text unmodified.
func getCommandPipeline(model jpf.Model, program, samplesDir string) jpf.Pipeline[string, string] {
	var enc jpf.Encoder[string] = newCommandPromptEncoder(program, samplesDir)
	return jpf.NewOneShotPipeline(enc, jpf.NewStringParser(), nil, model)
}

func newCommandPromptEncoder(program, samplesDir string) *commandPromptEncoder {
	return &commandPromptEncoder{commandPromptData{
		Program:    program,
		SamplesDir: strings.TrimRight(samplesDir, "/"),
	}}
}

func (enc *commandPromptEncoder) BuildInputMessages(task string) ([]jpf.Message, error) {
	result := bytes.NewBuffer(nil)
	if err := commandSystemTemplate.Execute(result, enc.data); err != nil {
		return nil, err
	}
	return []jpf.Message{
		{
			Role:    jpf.SystemRole,
			Content: result.String(),
		},
		{
			Role:    jpf.UserRole,
			Content: "Question or Query: " + task,
		},
	}, nil
}
