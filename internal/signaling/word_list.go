package signaling

// keyWords feeds the "words" join key style. Short, unambiguous and easy to
// read aloud over a call.
var keyWords = []string{
	"amber", "anchor", "apple", "arrow", "aspen", "badge", "basil", "beacon",
	"berry", "birch", "bloom", "brook", "cable", "cedar", "chalk", "cider",
	"clover", "comet", "coral", "cricket", "dune", "ember", "fable", "fern",
	"flint", "frost", "gable", "glade", "harbor", "hazel", "heron", "indigo",
	"ivy", "jasper", "juniper", "kettle", "lantern", "lemon", "lilac", "lotus",
	"maple", "meadow", "mint", "nectar", "nova", "oak", "olive", "orbit",
	"pebble", "pine", "plum", "quartz", "quill", "raven", "reed", "river",
	"saffron", "sage", "slate", "sparrow", "thistle", "tulip", "willow", "zephyr",
}
