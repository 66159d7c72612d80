package itemset

import "github.com/guttosm/truckload/internal/domain/model"

func single(names ...string) [][]string {
	out := make([][]string, len(names))
	for i, n := range names {
		out[i] = []string{n}
	}
	return out
}

func wardenCategories() []model.Category {
	return []model.Category{
		{
			Name: "SmallArms",
			Size: 25,
			Items: single(
				"Clancy-Raca M4",
				"Malone MK.2",
				"Booker Storm Rifle Model 838",
				"Aalto Storm Rifle 24",
				"No.4 The Pillory Scattergun",
				"No.2B Hawthorne",
				"Cascadier 873",
				"A3 Harpa Fragmentation Grenade",
				"Blakerow 871",
				"Clancy Cinder M3",
				"The Hangman 757",
				"Sampo Auto-Rifle 77",
				`No.1 "The Liar" Submachine Gun`,
				"Fiddler Submachine Gun Model 868",
				"No.2 Loughcaster",
				"Green Ash Grenade",
				".44",
				"8mm",
				"PT-815 Smoke Grenade",
				"Cometa T2-9",
				"7.62mm",
				"9mm",
				"Buckshot",
				"7.92mm",
				"12.7mm",
			),
			Costs: []int{
				250, 0, 0, 25,
				0, 0, 0, 25,
				0, 0, 0, 15,
				0, 0, 0, 15,
				80, 0, 0, 0,
				70, 0, 0, 0,
				60, 0, 0, 0,
				100, 40, 0, 0,
				140, 0, 0, 0,
				130, 0, 0, 0,
				125, 0, 0, 0,
				125, 0, 0, 0,
				120, 0, 0, 0,
				120, 0, 0, 0,
				100, 0, 0, 0,
				140, 0, 0, 0,
				40, 0, 0, 0,
				40, 0, 0, 0,
				80, 0, 0, 0,
				60, 0, 0, 0,
				80, 0, 0, 0,
				80, 0, 0, 0,
				80, 0, 0, 0,
				120, 0, 0, 0,
				100, 0, 0, 0,
			},
		},
		{
			Name: "HeavyArms",
			Size: 22,
			Items: single(
				"Willow's Bane Model 845",
				"B2 Varsi Anti-Tank Grenade",
				"20 Neville Anti-Tank Rifle",
				"Carnyx Anti-Tank Rocket Launcher",
				"Mounted Bonesaw MK.3",
				"Malone Ratcatcher MK.1",
				"Cutler Foebreaker",
				"Cutler Launcher 4",
				"Bonesaw MK.3",
				"BF5 White Ash Flask Grenade",
				"20mm",
				"Cremari Mortar",
				"Mammon 91-b",
				"Anti-Tank Sticky Bomb",
				"AP/RPG",
				"ARC/RPG",
				"Flare Mortar Shell",
				"Shrapnel Mortar Shell",
				"Mortar Shell",
				"RPG",
				"Tremola Grenade GPb-1",
				"30mm",
			),
			Costs: []int{
				165, 0, 0, 30,
				95, 125, 0, 0,
				150, 0, 0, 0,
				125, 0, 0, 15,
				100, 0, 0, 5,
				100, 0, 0, 5,
				100, 0, 0, 5,
				100, 0, 0, 35,
				100, 0, 0, 25,
				100, 80, 0, 0,
				100, 0, 0, 0,
				100, 0, 0, 25,
				100, 20, 0, 0,
				50, 100, 0, 0,
				60, 150, 0, 0,
				60, 150, 0, 0,
				60, 15, 0, 0,
				60, 20, 0, 0,
				60, 70, 0, 0,
				60, 90, 0, 0,
				75, 100, 0, 0,
				80, 40, 0, 0,
			},
		},
		{
			Name: "HeavyAmmunition",
			Size: 5,
			Items: single(
				"68mm",
				`250mm "Purity" Shell`,
				"120mm",
				"150mm",
				"40mm",
			),
			Costs: []int{
				120, 240, 0, 0,
				120, 0, 100, 0,
				120, 0, 10, 0,
				120, 0, 60, 0,
				160, 240, 0, 0,
			},
		},
		{
			Name: "Utility",
			Size: 22,
			Items: single(
				"The Ospreay",
				"Willow's Bane Ammo",
				"Alligator Charge",
				"Falias Raiding Club",
				"Shovel",
				"Water Bucket",
				"Wrench",
				"Radio",
				"Binoculars",
				"Havoc Charge",
				"Havoc Charge Detonator",
				"Buckhorn CCQ-18",
				"Metal Beam",
				"Sledge Hammer",
				"Gas Mask Filter",
				"Gas Mask",
				"Sandbag",
				"Barbed Wire",
				"Wind Sock",
				"Radio Backpack",
				"Listening Kit",
				"Tripod",
			),
			Costs: []int{
				85, 0, 0, 10,
				135, 0, 20, 0,
				150, 160, 0, 0,
				200, 0, 0, 0,
				200, 0, 0, 0,
				80, 0, 0, 0,
				75, 0, 0, 0,
				75, 0, 0, 0,
				75, 0, 0, 0,
				75, 0, 40, 0,
				75, 0, 20, 0,
				40, 0, 0, 0,
				25, 0, 0, 0,
				200, 0, 0, 0,
				100, 0, 0, 0,
				160, 0, 0, 0,
				15, 0, 0, 0,
				15, 0, 0, 0,
				150, 0, 0, 0,
				150, 0, 0, 0,
				150, 0, 0, 0,
				100, 0, 0, 0,
			},
		},
		{
			Name: "Medical",
			Size: 5,
			Items: single(
				"First Aid Kit",
				"Bandages",
				"Blood Plasma",
				"Soldier Supplies",
				"Trauma Kit",
			),
			Costs: []int{
				60, 0, 0, 0,
				80, 0, 0, 0,
				80, 0, 0, 0,
				80, 0, 0, 0,
				80, 0, 0, 0,
			},
		},
		{
			Name:  "Resources",
			Size:  1,
			Items: single("Maintenance Supplies"),
			Costs: []int{
				250, 0, 0, 0,
			},
		},
		{
			Name: "Uniforms",
			Size: 9,
			Items: single(
				"Caoivish Parka",
				"Gentleman's Peacoat",
				"Officer's Regalia",
				"Outrider's Mantle",
				"Padded Boiler Suit",
				"Physician's Jacket",
				"Sapper Gear",
				"Specialist's Overcoat",
				"Gunner's Breastplate",
			),
			Costs: []int{
				100, 0, 0, 0,
				100, 0, 0, 0,
				100, 0, 0, 0,
				100, 0, 0, 0,
				100, 0, 0, 0,
				100, 0, 0, 0,
				100, 0, 0, 0,
				100, 0, 0, 0,
				150, 0, 0, 0,
			},
		},
	}
}
