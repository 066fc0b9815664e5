package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-sidechain/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)

	// Output:
	// sampleRate=44100 blockSize=256 channels=2
}

func ExampleClamp() {
	fmt.Println(core.Clamp(1.4, 0, 1), core.Clamp(-0.2, 0, 1))

	// Output:
	// 1 0
}
