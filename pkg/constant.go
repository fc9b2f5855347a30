package pkg

type OsmHighwayType uint8

// enum buat osm highway buat routing: https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
const (
	MOTORWAY       OsmHighwayType = 0
	TRUNK          OsmHighwayType = 1
	PRIMARY        OsmHighwayType = 2
	SECONDARY      OsmHighwayType = 3
	TERTIARY       OsmHighwayType = 4
	RESIDENTIAL    OsmHighwayType = 5
	SERVICE        OsmHighwayType = 6
	UNCLASSIFIED   OsmHighwayType = 7
	MOTORWAY_LINK  OsmHighwayType = 8
	TRUNK_LINK     OsmHighwayType = 9
	PRIMARY_LINK   OsmHighwayType = 10
	SECONDARY_LINK OsmHighwayType = 11
	TERTIARY_LINK  OsmHighwayType = 12
	LIVING_STREET  OsmHighwayType = 13
	ROAD           OsmHighwayType = 14
	TRACK          OsmHighwayType = 15
	MOTORROAD      OsmHighwayType = 16
	UNKNOWN        OsmHighwayType = 17
)

const (
	INF_WEIGHT float64 = 1e15

	// speed used when a way has neither a maxspeed tag nor a known highway type
	DEFAULT_SPEED_KMH = 30.0
	MPH_TO_KMH        = 1.60934
	KNOTS_TO_KMH      = 1.852
)

func GetHighwayType(roadType string) OsmHighwayType {
	switch roadType {
	case "motorway":
		return MOTORWAY
	case "trunk":
		return TRUNK
	case "primary":
		return PRIMARY
	case "secondary":
		return SECONDARY
	case "tertiary":
		return TERTIARY
	case "unclassified":
		return UNCLASSIFIED
	case "residential":
		return RESIDENTIAL
	case "service":
		return SERVICE
	case "motorway_link":
		return MOTORWAY_LINK
	case "trunk_link":
		return TRUNK_LINK
	case "primary_link":
		return PRIMARY_LINK
	case "secondary_link":
		return SECONDARY_LINK
	case "tertiary_link":
		return TERTIARY_LINK
	case "living_street":
		return LIVING_STREET
	case "road":
		return ROAD
	case "track":
		return TRACK
	case "motorroad":
		return MOTORROAD
	default:
		return UNKNOWN
	}
}

// RoadTypeMaxSpeed returns the default speed in km/h of a highway type.
func RoadTypeMaxSpeed(hwType OsmHighwayType) float64 {
	switch hwType {
	case MOTORWAY:
		return 100
	case TRUNK:
		return 70
	case PRIMARY:
		return 65
	case SECONDARY:
		return 60
	case TERTIARY:
		return 50
	case UNCLASSIFIED:
		return 40
	case RESIDENTIAL:
		return 30
	case SERVICE:
		return 20
	case MOTORWAY_LINK:
		return 70
	case TRUNK_LINK:
		return 65
	case PRIMARY_LINK:
		return 60
	case SECONDARY_LINK:
		return 50
	case TERTIARY_LINK:
		return 40
	case LIVING_STREET:
		return 5
	case ROAD:
		return 20
	case TRACK:
		return 15
	case MOTORROAD:
		return 90
	default:
		return DEFAULT_SPEED_KMH
	}
}
