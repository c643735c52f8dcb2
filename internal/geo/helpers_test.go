package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func square(minX, minY, size float64, props geojson.Properties) *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{orb.Ring{
		{minX, minY}, {minX + size, minY}, {minX + size, minY + size}, {minX, minY + size}, {minX, minY},
	}})
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

func precincts() []*geojson.Feature {
	return []*geojson.Feature{
		square(-94, 45, 0.1, geojson.Properties{"PrecinctID": "1", "precinct_name": "Adams", "County": "Hennepin", "MNLegDist": "10B"}),
		square(-93, 45, 0.1, geojson.Properties{"PrecinctID": "2", "precinct_name": "Baker", "County": "Hennepin", "MNLegDist": "2A"}),
		square(-92, 44, 0.1, geojson.Properties{"PrecinctID": "3", "precinct_name": "Cook", "County": " Ramsey ", "MNLegDist": "64A"}),
		square(-91, 44, 0.1, geojson.Properties{"PrecinctID": "4", "precinct_name": "Dale", "County": "hennepin", "MNLegDist": "10B"}),
		square(-90, 43, 0.1, geojson.Properties{"PrecinctID": "5", "precinct_name": "Eden"}),
	}
}
