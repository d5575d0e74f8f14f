// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "fewshot-go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "fewshot.log")
	viper.SetDefault("main.log.maxsize", 10)
	viper.SetDefault("main.log.maxbackups", 3)
	viper.SetDefault("main.log.maxage", 30)

	viper.SetDefault("dataset.labelspath", "/kaggle/input/aging-labels/ffhq_aging_labels.csv")
	viper.SetDefault("dataset.metadatapath", "")
	viper.SetDefault("dataset.sourcedir", "/kaggle/working/ffhq/Part1")
	viper.SetDefault("dataset.outputdir", "/kaggle/working/children_under3")
	viper.SetDefault("dataset.agegroup", "0-2")
	viper.SetDefault("dataset.maxage", 3.0)

	viper.SetDefault("pipeline.python", "python3")
	viper.SetDefault("pipeline.scriptsdir", "scripts")
	viper.SetDefault("pipeline.workdir", "/kaggle/working")
	viper.SetDefault("pipeline.device", "cuda:0")
	viper.SetDefault("pipeline.datadir", "/kaggle/working/children_under3")

	viper.SetDefault("pipeline.stats.batchsize", 50)
	viper.SetDefault("pipeline.stats.imagesize", 256)
	viper.SetDefault("pipeline.stats.dims", 2048)
	viper.SetDefault("pipeline.stats.output", "fid_stats/children_under3.npz")

	viper.SetDefault("pipeline.train.epochs", 500)
	viper.SetDefault("pipeline.train.learningrate", 0.0001)
	viper.SetDefault("pipeline.train.tstart", 20)
	viper.SetDefault("pipeline.train.tend", 980)
	viper.SetDefault("pipeline.train.ngradients", 16)
	viper.SetDefault("pipeline.train.batchsize", 4)
	viper.SetDefault("pipeline.train.checkpointout", "checkpoints/model_babies.pth")

	viper.SetDefault("pipeline.evaluate.numsamples", 1000)
	viper.SetDefault("pipeline.evaluate.batchsize", 16)
	viper.SetDefault("pipeline.evaluate.samplesout", "arr.npy")
	viper.SetDefault("pipeline.evaluate.metricsout", "metrics.json")

	viper.SetDefault("output.sqlite.enabled", false)
	viper.SetDefault("output.sqlite.path", "fewshot.db")
}
