package domain

import "fmt"

// Advisory prose shown to the user at each stage. The renderer reflows
// adjacent lines so these can be wrapped for readability here.

func introAdvice(bcpf, apex, sdk string) string {
	return fmt.Sprintf(`
Run this tool to help initialize a bootclasspath_fragment module. Before you
start make sure that:

1. The current checkout is up to date.

2. The environment has been initialized using lunch, e.g.
   lunch aosp_arm64-userdebug

3. You have added a bootclasspath_fragment module to the appropriate Android.bp
file. Something like this:

   bootclasspath_fragment {
     name: %[1]q,
     contents: [
       "...",
     ],

     // The bootclasspath_fragments that provide APIs on which this depends.
     fragments: [
       {
         apex: "com.android.art",
         module: "art-bootclasspath-fragment",
       },
     ],
   }

4. You have added it to the platform_bootclasspath module in
frameworks/base/boot/Android.bp. Something like this:

   platform_bootclasspath {
     name: "platform-bootclasspath",
     fragments: [
       ...
       {
         apex: %[2]q,
         module: %[1]q,
       },
     ],
   }

5. You have added an sdk module. Something like this:

   sdk {
     name: %[3]q,
     bootclasspath_fragments: [%[1]q],
   }
`, bcpf, apex, sdk)
}

func stubFlagsDiffAdvice(bcpf string) string {
	return fmt.Sprintf(`
There is a discrepancy between the stub API derived flags created by the
bootclasspath_fragment and the platform_bootclasspath. See the diff above to
see which flags are inconsistent. The inconsistencies can occur for a couple
of reasons:

If you are building against prebuilts of the Android SDK, e.g. by using
TARGET_BUILD_APPS then the prebuilt versions of the APIs this
bootclasspath_fragment depends upon are out of date and need updating.

Otherwise, this is happening because there are some stub APIs that are either
provided by or used by the contents of the bootclasspath_fragment but which are
not available to it. There are 4 ways to handle this:

1. A java_sdk_library in the contents property will automatically make its stub
   APIs available to the bootclasspath_fragment so nothing needs to be done.

2. If the API provided by the bootclasspath_fragment is created by an api_only
   java_sdk_library (or a java_library that compiles files generated by a
   separate droidstubs module) then it cannot be added to the contents and
   instead must be added to the api.stubs property, e.g.

   bootclasspath_fragment {
     name: %[1]q,
     ...
     api: {
       stubs: ["$MODULE-api-only"],
     },
   }

3. If the contents use APIs provided by another bootclasspath_fragment then
   it needs to be added to the fragments property, e.g.

   bootclasspath_fragment {
     name: %[1]q,
     ...
     // The bootclasspath_fragments that provide APIs on which this depends.
     fragments: [
       ...
       {
         apex: "com.android.other",
         module: "com.android.other-bootclasspath-fragment",
       },
     ],
   }

4. If the contents use APIs from a module that is not part of another
   bootclasspath_fragment then it must be added to the additional_stubs
   property, e.g.

   bootclasspath_fragment {
     name: %[1]q,
     ...
     additional_stubs: ["android-non-updatable"],
   }

   Like the api.stubs property these are typically java_sdk_library modules but
   can be java_library too.
`, bcpf)
}

func monolithicFlagsDiffAdvice(apex string) string {
	return fmt.Sprintf(`
There is a discrepancy between the hidden API flags created by the
bootclasspath_fragment and the platform_bootclasspath. See the diff above to
see which flags are inconsistent. The inconsistencies can occur for a couple
of reasons:

If you are building against prebuilts of this bootclasspath_fragment then the
prebuilt version of the sdk snapshot (specifically the hidden API flag files)
are inconsistent with the prebuilt version of the apex %s. Please
ensure that they are both updated from the same build.

1. There are custom hidden API flags specified in the one of the files in
   frameworks/base/boot/hiddenapi which apply to the bootclasspath_fragment but
   which are not supplied to the bootclasspath_fragment module.

2. The bootclasspath_fragment specifies invalid "package_prefixes" or
   "split_packages" properties that match packages and classes that it does not
   provide.
`, apex)
}
