package catalog

// Demo returns the built-in demo datasets.
func Demo() *Catalog {
	c, err := New(
		Dataset{
			Code:        "wcma",
			Name:        "wcma",
			SourceURL:   "https://github.com/wcmaart/collection/raw/refs/heads/master/wcma-collection.csv",
			LocalTarget: "data/wcma.csv",
		},
		Dataset{
			Code:        "car",
			Name:        "car",
			SourceURL:   "https://corgis-edu.github.io/corgis/datasets/csv/cars/cars.csv",
			LocalTarget: "data/cars.csv",
		},
		Dataset{
			Code:        "wine",
			Name:        "wine",
			SourceURL:   "https://github.com/algolia/datasets/raw/refs/heads/master/wine/bordeaux.json",
			LocalTarget: "data/wine.json",
		},
		Dataset{
			Code:          "marvel",
			Name:          "marvel",
			SourceURL:     "https://github.com/algolia/marvel-search/archive/refs/heads/master.zip",
			LocalTarget:   "zip/marvel.zip",
			ConvertedPath: "data/marvel.jsonl",
		},
		// wam-dywer.csv is pre-cleaned elsewhere and shipped inside zip/wam.zip.
		Dataset{
			Code:        "wam",
			Name:        "wam",
			LocalTarget: "data/wam-dywer.csv",
			Archive:     ArchiveSource{Path: "zip/wam.zip", Member: "wam-dywer.csv"},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}
